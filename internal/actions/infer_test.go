package actions_test

import (
	"testing"

	"visionforge/internal/actions"
)

func TestInferTable(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"nod", "うん、わかった", "nod"},
		{"shake head", "ダメに決まってる", "shake_head"},
		{"fly away", "うわあああ！", "fly_away"},
		{"jump", "やったー！", "jump"},
		{"thinking", "どうしようかな", "thinking"},
		{"zoom", "ここからです、見てください", "zoom_in"},
		{"no match", "静かな夜だった", "none"},
		{"empty", "", "none"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := actions.Infer(tc.text); got != tc.want {
				t.Fatalf("Infer(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestInferEarliestRuleWinsOnTie(t *testing.T) {
	// Contains a nod trigger and a shake_head trigger; nod is declared
	// first and must win.
	text := "うん、でもそんなのダメだよ"
	if got := actions.Infer(text); got != "nod" {
		t.Fatalf("expected earliest declared action nod, got %q", got)
	}
}

func TestInferIsPure(t *testing.T) {
	text := "なるほど、了解です"
	first := actions.Infer(text)
	for i := 0; i < 10; i++ {
		if got := actions.Infer(text); got != first {
			t.Fatalf("Infer not deterministic: got %q then %q", first, got)
		}
	}
}

func TestInferFoldsWidthVariants(t *testing.T) {
	// Half-width katakana normalizes to the full-width trigger form.
	if got := actions.Infer("ｼﾞｬﾝﾌﾟした"); got != "jump" {
		t.Fatalf("expected width-folded match to jump, got %q", got)
	}
}

func TestLabelsOrder(t *testing.T) {
	labels := actions.Labels()
	if len(labels) != 15 {
		t.Fatalf("expected 15 labels, got %d", len(labels))
	}
	if labels[0] != "fly_away" || labels[5] != "nod" || labels[6] != "shake_head" {
		t.Fatalf("unexpected label order: %v", labels)
	}
	for _, label := range labels {
		if label == actions.None {
			t.Fatal("labels must not include the none sentinel")
		}
	}
}
