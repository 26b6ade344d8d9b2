package promo

// DefaultRecentWindow is the number of recent posts the activity gate
// inspects.
const DefaultRecentWindow = 5

// NaturalActivityOnly reports whether automated posting is currently
// appropriate. It passes only when every inspected recent post originates
// from a human client: a single post carrying this service's own provenance
// tag blocks the run. An account with fewer posts than the window is judged
// on whatever exists, so a fresh account with no posts passes vacuously.
func NaturalActivityOnly(recentPosts []RecentPost, ownTag string) bool {
	for _, post := range recentPosts {
		if post.Source == ownTag {
			return false
		}
	}
	return true
}
