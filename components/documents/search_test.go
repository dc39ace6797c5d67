package documents

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func keys(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, opt := range opts {
		out = append(out, opt.Value)
	}
	return out
}

func TestSearchOptions_PrefixRanksFirst(t *testing.T) {
	opts := NewOptions()
	got := keys(SearchOptions(sampleDocs, "a", "", 0, opts))
	want := []string{"affidavit", "nda", "rental_agreement"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	got = keys(SearchOptions(sampleDocs, "agreement", "", 0, opts))
	want = []string{"nda", "rental_agreement"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchOptions_Aliases(t *testing.T) {
	got := SearchOptions(sampleDocs, "non_disclosure", "", 0, NewOptions(WithAliases(true)))
	if len(got) != 1 || got[0].AliasOf != "nda" {
		t.Fatalf("expected alias option, got %#v", got)
	}
	if got := SearchOptions(sampleDocs, "non_disclosure", "", 0, NewOptions()); got != nil {
		t.Fatalf("aliases hidden by default, got %#v", got)
	}
}

func TestSearch_Limits(t *testing.T) {
	opts := NewOptions(WithDefaultLimit(2))
	if got := Search(sampleDocs, "", "", 0, opts); len(got) != 2 {
		t.Fatalf("expected default limit 2, got %d", len(got))
	}
	if got := Search(sampleDocs, "", "", -1, opts); got != nil {
		t.Fatalf("negative limit returns nothing, got %#v", got)
	}
}
