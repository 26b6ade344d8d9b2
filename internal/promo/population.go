package promo

import "github.com/ianfinch/blog-tweet/pkg/logging"

// BuildPopulation merges the template set with the tweet history into one
// enriched population. Every template starts at zero uses; each history entry
// increments the count of the template it references. History entries that
// reference a template no longer in the set are skipped rather than failing
// the run, since stale entries outlive deleted templates.
func BuildPopulation(templates map[string]Template, history []HistoryEntry, logger logging.Logger) Population {
	population := make(Population, len(templates))
	for name, tpl := range templates {
		t := tpl
		t.Tweeted = 0
		population[name] = &t
	}

	for _, entry := range history {
		tpl, ok := population[entry.Template]
		if !ok {
			logger.WithFields(logging.Fields{
				"template": entry.Template,
				"tweet_id": entry.TweetID,
			}).Warn("History entry references unknown template, skipping")
			continue
		}
		tpl.Tweeted++
	}

	return population
}
