package redis

import "testing"

func TestRedisKey_Namespacing(t *testing.T) {
	got := RedisKey("sess1/budget-store")
	want := "fc:session:sess1/budget-store"
	if got != want {
		t.Errorf("RedisKey = %q, want %q", got, want)
	}
}
