package draft

import (
	"regexp"
	"strings"
)

// CTA detection is a hand-tuned heuristic: a sentence asking for a
// meeting or carrying a concrete day/time signal, excluding social-proof
// lines ("recently spoke with a colleague") and explanatory sentences
// about what the product is. Exclusions win over scheduling vocabulary.

var (
	schedulingVocab = regexp.MustCompile(`(?i)\b(schedule|scheduling|set up|book|hop on|meet|meeting|quick call|brief call|a call|chat|connect|touch base|follow up|sync|catch up)\b`)
	dayTimeSignal   = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|tomorrow|next week|this week|morning|afternoon|\d{1,2}(:\d{2})?\s*(am|pm))\b`)

	colleagueExclusion   = regexp.MustCompile(`(?i)\b(spoke|talked|met)\b.{0,40}\b(colleague|coworker|team member|counterpart)\b`)
	explanatoryExclusion = regexp.MustCompile(`(?i)\b(is|are|was|offers?|provides?)\s+(a|an|the)\b.{0,60}\b(platform|solution|service|product|company|provider|tool|firm|broker)\b`)
)

// IsCTA reports whether a sentence is a call-to-action.
func IsCTA(sentence string) bool {
	if colleagueExclusion.MatchString(sentence) {
		return false
	}
	if explanatoryExclusion.MatchString(sentence) {
		return false
	}
	return schedulingVocab.MatchString(sentence) || dayTimeSignal.MatchString(sentence)
}

// maxParagraphs and maxSentences bound the body; ctaMaxWords bounds a CTA
// shortened under the total word budget; wordBudget bounds the whole body.
const (
	maxParagraphs = 2
	maxSentences  = 2
	wordBudget    = 100
	ctaMaxWords   = 10
)

// EnforceBrevity reduces the body to at most maxParagraphs content
// paragraphs of at most maxSentences sentences each (bullet paragraphs
// are exempt from the sentence cap but still count toward the paragraph
// cap), extracts at most one CTA sentence into its own trailing slot with
// duplicates removed, and trims to the total word budget.
func EnforceBrevity(paras []paragraph) ([]paragraph, string) {
	cta := ""

	// Find the first CTA sentence and strip every occurrence from the
	// body so it appears exactly once, at the end.
	for i := range paras {
		if paras[i].bullet {
			continue
		}
		sentences := SplitSentences(paras[i].text)
		kept := sentences[:0]
		for _, s := range sentences {
			if IsCTA(s) && !strings.HasPrefix(s, "Per your account:") {
				if cta == "" {
					cta = s
				}
				if s == cta {
					continue // deduplicate
				}
			}
			kept = append(kept, s)
		}
		paras[i].text = joinSentences(kept)
	}

	// Drop paragraphs emptied by CTA extraction, cap sentences, then cap
	// paragraph count.
	var out []paragraph
	for _, p := range paras {
		if strings.TrimSpace(p.text) == "" {
			continue
		}
		if !p.bullet {
			sentences := SplitSentences(p.text)
			if len(sentences) > maxSentences {
				sentences = sentences[:maxSentences]
			}
			p.text = joinSentences(sentences)
		}
		out = append(out, p)
		if len(out) == maxParagraphs {
			break
		}
	}

	// Word budget: trim trailing sentences from the last paragraph
	// first, then shorten the CTA. The first paragraph's last sentence is
	// never dropped; an overlong lone sentence is word-truncated instead,
	// so the body always keeps some content.
	for totalWords(out, cta) > wordBudget && len(out) > 0 {
		last := &out[len(out)-1]
		if !last.bullet {
			if sentences := SplitSentences(last.text); len(sentences) > 1 {
				last.text = joinSentences(sentences[:len(sentences)-1])
				continue
			}
		}
		if len(out) == 1 && !last.bullet {
			budget := wordBudget - WordCount(cta)
			if budget < 1 {
				budget = 1
			}
			last.text = truncateWords(last.text, budget)
			break
		}
		out = out[:len(out)-1]
	}
	if totalWords(out, cta) > wordBudget {
		cta = truncateWords(cta, ctaMaxWords)
	}

	return out, cta
}

func totalWords(paras []paragraph, cta string) int {
	total := WordCount(cta)
	for _, p := range paras {
		total += WordCount(p.text)
	}
	return total
}

// truncateWords hard-caps text at n words, keeping terminal punctuation
// sensible.
func truncateWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	out := strings.Join(words[:n], " ")
	out = strings.TrimRight(out, ",;:")
	if !strings.HasSuffix(out, ".") && !strings.HasSuffix(out, "?") && !strings.HasSuffix(out, "!") {
		out += "?"
	}
	return out
}
