package credentials

import (
	"context"
	"errors"
	"strings"
	"testing"

	goredis "github.com/redis/go-redis/v9"
)

type getterStub struct {
	val string
	err error
}

func (g *getterStub) Get(ctx context.Context, key string) *goredis.StringCmd {
	return goredis.NewStringResult(g.val, g.err)
}

func TestGetDecodesCredentials(t *testing.T) {
	stub := &getterStub{val: `{"api_key":"k","api_secret":"s","access_token":"t","access_secret":"ts"}`}
	store := New(stub, "blog-tweet:credentials")

	creds, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("get credentials: %v", err)
	}
	if creds.APIKey != "k" || creds.AccessToken != "t" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := New(&getterStub{err: goredis.Nil}, "blog-tweet:credentials")

	_, err := store.Get(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no credentials stored") {
		t.Fatalf("expected missing-key error, got %v", err)
	}
}

func TestGetRedisError(t *testing.T) {
	store := New(&getterStub{err: errors.New("connection refused")}, "k")

	if _, err := store.Get(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestGetRejectsMalformedBlob(t *testing.T) {
	store := New(&getterStub{val: "{not json"}, "k")

	if _, err := store.Get(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestGetRejectsIncompleteCredentials(t *testing.T) {
	store := New(&getterStub{val: `{"api_key":"k"}`}, "k")

	_, err := store.Get(context.Background())
	if err == nil || !strings.Contains(err.Error(), "incomplete") {
		t.Fatalf("expected incomplete-credentials error, got %v", err)
	}
}
