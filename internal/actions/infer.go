package actions

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// None is returned when no trigger matches.
const None = "none"

type rule struct {
	label    string
	triggers []string
}

// Declaration order is part of the contract: when several actions' triggers
// appear in the same text, the earliest rule wins. Do not reorder.
var rules = []rule{
	{"fly_away", []string{"うわあ", "わああ", "吹っ飛", "飛ばさ", "助けて", "ぎゃあ", "きゃあ"}},
	{"run_left", []string{"逃げろ", "さらば", "バイバイ", "走れ", "逃げる"}},
	{"run_right", []string{"あっちいけ", "行け", "急げ"}},
	{"jump", []string{"ジャンプ", "跳ぶ", "やった", "うれしい", "わーい"}},
	{"big_jump", []string{"大ジャンプ", "高く跳ぶ", "すごい"}},
	{"nod", []string{"うん", "はい", "そうですね", "納得", "了解", "なるほど", "承知"}},
	{"shake_head", []string{"ダメ", "違う", "無理", "嫌だ", "そんな", "いやだ", "お断り"}},
	{"shiver", []string{"怖い", "寒い", "震える", "ゾクゾク", "ひえっ"}},
	{"spin", []string{"回転", "回る", "くるくる", "ダンス"}},
	{"zoom_in", []string{"注目", "見て", "ドアップ", "ここからです"}},
	{"back_off", []string{"やめて", "近寄るな", "引くわ", "ドン引き"}},
	{"angry_vibe", []string{"激怒", "許さん", "ぶっ飛ばす", "怒った"}},
	{"happy_hop", []string{"ルンルン", "楽しい", "わくわく"}},
	{"fall_down", []string{"ガーン", "絶望", "力尽きた", "無理です"}},
	{"thinking", []string{"うーん", "考え中", "どうしよう", "かな？"}},
}

// Infer maps narration text to an action label. Matching is plain substring
// containment over NFKC-normalized text, so half-width katakana and
// full-width ASCII variants still trigger. Returns None when nothing
// matches.
func Infer(text string) string {
	if text == "" {
		return None
	}
	folded := norm.NFKC.String(text)
	for _, r := range rules {
		for _, trigger := range r.triggers {
			if strings.Contains(folded, norm.NFKC.String(trigger)) {
				return r.label
			}
		}
	}
	return None
}

// Labels returns every known action label in declaration order, without None.
func Labels() []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.label)
	}
	return out
}
