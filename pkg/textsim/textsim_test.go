package textsim

import (
	"fmt"
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("Create a Cloud Storage bucket, with versioning ENABLED!")
	want := []string{"create", "cloud", "storage", "bucket", "versioning", "enabled"}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for _, tok := range want {
		if _, ok := got[tok]; !ok {
			t.Errorf("missing token %q", tok)
		}
	}
}

func TestTokenizeDropsNoise(t *testing.T) {
	got := Tokenize("A b C the and I")
	if len(got) != 0 {
		t.Errorf("expected empty set, got %v", got)
	}
}

func TestJaccardBoundsAndSymmetry(t *testing.T) {
	a := Tokenize("configure virtual private cloud networking")
	b := Tokenize("configure cloud networking rules")

	ab := Jaccard(a, b)
	ba := Jaccard(b, a)
	if ab != ba {
		t.Errorf("asymmetric: %f vs %f", ab, ba)
	}
	if ab < 0 || ab > 1 {
		t.Errorf("out of bounds: %f", ab)
	}
	if got := Jaccard(a, a); got != 1 {
		t.Errorf("identical sets = %f, want 1", got)
	}
	if got := Jaccard(TokenSet{}, TokenSet{}); got != 1 {
		t.Errorf("empty sets = %f, want 1", got)
	}
	if got := Jaccard(a, TokenSet{}); got != 0 {
		t.Errorf("one empty set = %f, want 0", got)
	}
}

func TestPruningMatchesExactJaccard(t *testing.T) {
	// Pairs spanning the prune boundary: each pruned pair must truly be
	// below threshold.
	texts := []string{
		"create cloud storage bucket with versioning enabled",
		"create cloud storage bucket with object versioning enabled",
		"delete compute engine instance group",
		"launch database migration assessment report",
		"create storage bucket",
		"one",
		"",
	}
	sets := make([]TokenSet, len(texts))
	for i, text := range texts {
		sets[i] = Tokenize(text)
	}

	for _, threshold := range []float64{0.3, 0.5, 0.7, 0.9} {
		for i := range sets {
			for j := range sets {
				exact := Jaccard(sets[i], sets[j])
				sim, ok := similarityAbove(sets[i], sets[j], threshold)
				if ok != (exact >= threshold) {
					t.Errorf("threshold %.1f, pair (%d,%d): pruned=%v but exact=%f", threshold, i, j, !ok, exact)
				}
				if ok && math.Abs(sim-exact) > 1e-9 {
					t.Errorf("pair (%d,%d): sim=%f, exact=%f", i, j, sim, exact)
				}
			}
		}
	}
}

func TestFindDuplicateScenario(t *testing.T) {
	pool := []Item{
		NewItem(1, "Create a Cloud Storage bucket with versioning enabled"),
		NewItem(2, "Configure IAM roles for a service account"),
	}

	match := FindDuplicate("Create a Cloud Storage bucket with object versioning enabled", pool, DefaultThreshold)
	if match == nil {
		t.Fatal("expected duplicate match, got none")
	}
	if match.Item.ID != 1 {
		t.Errorf("matched item %d, want 1", match.Item.ID)
	}
	if match.Similarity <= DefaultThreshold {
		t.Errorf("similarity = %f, want > %f", match.Similarity, DefaultThreshold)
	}

	if m := FindDuplicate("Deploy a Kubernetes cluster across regions", pool, DefaultThreshold); m != nil {
		t.Errorf("unexpected match for novel text: %+v", m)
	}
}

func TestDeduplicateBatchCrossBatch(t *testing.T) {
	existing := []Item{NewItem(1, "Enable audit logging for the project")}
	batch := []string{
		"Configure a firewall rule allowing ingress traffic",
		"Configure a firewall rule allowing all ingress traffic", // dup of previous accept
		"Enable audit logging for the whole project",             // dup of existing
		"Rotate service account keys on a schedule",
	}

	results := DeduplicateBatch(batch, existing, DefaultThreshold)
	if len(results) != len(batch) {
		t.Fatalf("got %d results, want %d", len(results), len(batch))
	}

	if !results[0].Accepted {
		t.Errorf("first text rejected: %+v", results[0])
	}
	if results[1].Accepted {
		t.Errorf("cross-batch duplicate accepted: %+v", results[1])
	} else if results[1].MatchText != batch[0] {
		t.Errorf("duplicate matched %q, want earlier batch entry", results[1].MatchText)
	}
	if results[2].Accepted {
		t.Errorf("existing-pool duplicate accepted: %+v", results[2])
	}
	if !results[3].Accepted {
		t.Errorf("novel text rejected: %+v", results[3])
	}

	// Input pool must stay untouched.
	if len(existing) != 1 {
		t.Errorf("existing pool mutated, len=%d", len(existing))
	}
}

func TestDeduplicateBatchLargePool(t *testing.T) {
	existing := make([]Item, 0, 200)
	for i := 0; i < 200; i++ {
		existing = append(existing, NewItem(int64(i), fmt.Sprintf("question about topic %d variant %d alpha beta", i, i)))
	}
	results := DeduplicateBatch([]string{"question about topic 42 variant 42 alpha beta"}, existing, DefaultThreshold)
	if results[0].Accepted {
		t.Fatalf("expected rejection against large pool")
	}
}
