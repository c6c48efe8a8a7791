package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"maturity-quiz-service/internal/app"
)

func TestSessionStoreSetsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	session, err := store.GetOrCreate(context.Background(), "s-1", "m365-maturity")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if got, _ := mr.Get("assessment:session:s-1"); got != "m365-maturity" {
		t.Fatalf("expected bank id stored, got %q", got)
	}

	session.Restore([]int{2, -1, 0})
	if err := store.Persist(context.Background(), session); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if got := mr.HGet("assessment:session:s-1:answers", "0"); got != "2" {
		t.Fatalf("expected answer 0 stored as 2, got %q", got)
	}
	if mr.HGet("assessment:session:s-1:answers", "1") != "" {
		t.Fatalf("unanswered questions must not be stored")
	}

	store.DeleteIfEmpty("s-1")
	if _, ok := store.Get("s-1"); ok {
		t.Fatalf("expected local session released")
	}
	if !mr.Exists("assessment:session:s-1") {
		t.Fatalf("expected redis key kept for resume")
	}
}

func TestSessionStoreResumesAcrossInstances(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	first := NewSessionStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	session, err := first.GetOrCreate(ctx, "s-1", "m365-maturity")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	session.Restore([]int{1, -1, 3})
	if err := first.Persist(ctx, session); err != nil {
		t.Fatalf("persist: %v", err)
	}

	second := NewSessionStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	resumed, err := second.GetOrCreate(ctx, "s-1", "other-bank")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.BankID() != "m365-maturity" {
		t.Fatalf("expected stored bank id, got %q", resumed.BankID())
	}
	got := resumed.Answers()
	want := []int{1, -1, 3}
	if len(got) != len(want) {
		t.Fatalf("expected answers %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected answers %v, got %v", want, got)
		}
	}
}

var _ app.SessionRepository = (*SessionStore)(nil)

// blockingGetHook parks GET commands for one key until release is closed.
type blockingGetHook struct {
	key     string
	entered chan struct{}
	release chan struct{}
}

func (h *blockingGetHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *blockingGetHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		args := cmd.Args()
		if cmd.Name() == "get" && len(args) > 1 && args[1] == h.key {
			close(h.entered)
			<-h.release
		}
		return next(ctx, cmd)
	}
}

func (h *blockingGetHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestSessionStoreSlowRestoreDoesNotBlockOtherSessions(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	ctx := context.Background()

	fast, err := store.GetOrCreate(ctx, "fast", "m365-maturity")
	if err != nil {
		t.Fatalf("create fast session: %v", err)
	}

	hook := &blockingGetHook{
		key:     "assessment:session:slow",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	client.AddHook(hook)

	slowDone := make(chan error, 1)
	go func() {
		_, err := store.GetOrCreate(ctx, "slow", "m365-maturity")
		slowDone <- err
	}()
	<-hook.entered

	got := make(chan *app.Session, 1)
	go func() {
		s, _ := store.GetOrCreate(ctx, "fast", "m365-maturity")
		got <- s
	}()
	select {
	case s := <-got:
		if s != fast {
			t.Fatalf("expected the existing fast session")
		}
	case <-time.After(time.Second):
		close(hook.release)
		t.Fatalf("join of another session waited on a slow redis restore")
	}

	close(hook.release)
	if err := <-slowDone; err != nil {
		t.Fatalf("slow restore: %v", err)
	}
	if _, ok := store.Get("slow"); !ok {
		t.Fatalf("expected slow session stored after restore")
	}
}

func TestSessionStoreConcurrentJoinsShareSession(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	sessions := make([]*app.Session, 8)
	var wg sync.WaitGroup
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := store.GetOrCreate(context.Background(), "shared", "m365-maturity")
			if err != nil {
				t.Errorf("get or create: %v", err)
				return
			}
			sessions[i] = s
		}(i)
	}
	wg.Wait()
	for i, s := range sessions {
		if s == nil || s != sessions[0] {
			t.Fatalf("join %d got a different session", i)
		}
	}
}
