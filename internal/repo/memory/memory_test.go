package memory

import (
	"context"
	"testing"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

func report(url string) *domain.Report {
	return &domain.Report{
		URL:      url,
		Render:   domain.Ok(`site is up, page title: "Example"`),
		Latency:  domain.Ok("response time: 0.10 seconds (HTTP 200)"),
		Security: domain.Ok("site uses HTTPS"),
	}
}

func TestMemoryStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := report("https://a.example")
	if err := s.Append(ctx, first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if first.ID == "" || first.ObservedAt.IsZero() {
		t.Fatalf("expected ID and ObservedAt to be set: %+v", first)
	}
	time.Sleep(2 * time.Millisecond)
	if err := s.Append(ctx, report("https://b.example")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(all))
	}
	if all[0].URL != "https://a.example" || all[1].URL != "https://b.example" {
		t.Fatalf("want oldest first, got %s, %s", all[0].URL, all[1].URL)
	}

	// stored copies are isolated from callers
	all[0].URL = "mutated"
	again, _ := s.List(ctx)
	if again[0].URL != "https://a.example" {
		t.Fatalf("store leaked internal pointer")
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, u := range []string{"https://a", "https://b", "https://c"} {
		if err := s.Append(ctx, report(u)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	n, err := s.Clear(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Clear = %d, %v; want 3, nil", n, err)
	}
	all, _ := s.List(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %d", len(all))
	}
	if n, _ := s.Clear(ctx); n != 0 {
		t.Fatalf("second Clear should remove nothing, got %d", n)
	}
}
