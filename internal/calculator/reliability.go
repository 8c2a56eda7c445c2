// Package calculator derives display figures from a group's ledger. Nothing it
// computes is stored.
package calculator

// Reliability weights.
const (
	PaidWeight          = 0.7
	ParticipationWeight = 0.3

	// NeutralRatio stands in for a ratio with no data behind it.
	NeutralRatio = 0.5
)

// GroupChat is one group's chat volume.
type GroupChat struct {
	Members int // member count, at least 1 for a live group
	Total   int // messages sent in the group by anyone
	ByUser  int // messages sent by the user being scored
}

// ReliabilityInput is everything the score is derived from.
type ReliabilityInput struct {
	Contributions     int
	PaidContributions int
	Chats             []GroupChat
}

// ReliabilityScore is the score and its two components.
type ReliabilityScore struct {
	Score         float64 // 0..100
	PaidRatio     float64 // 0..1
	Participation float64 // 0..1
	Messages      int
}

// Reliability computes a display heuristic for how dependable a member is:
//
//	score = 100 × (0.7 × paidRatio + 0.3 × participation)
//
// paidRatio is paid / total contributions. participation compares the
// user's messages with a fair share of each group's chat (total / members),
// capped at 1. Either ratio falls back to 0.5 when there is nothing to
// measure. The result is always within [0, 100].
func Reliability(in ReliabilityInput) ReliabilityScore {
	paidRatio := NeutralRatio
	if in.Contributions > 0 {
		paidRatio = clamp(float64(in.PaidContributions)/float64(in.Contributions), 0, 1)
	}

	var expected float64
	var messages int
	for _, c := range in.Chats {
		if c.Members <= 0 {
			continue
		}
		expected += float64(c.Total) / float64(c.Members)
		messages += c.ByUser
	}

	participation := NeutralRatio
	if expected > 0 {
		participation = clamp(float64(messages)/expected, 0, 1)
	}

	score := 100 * (PaidWeight*paidRatio + ParticipationWeight*participation)
	return ReliabilityScore{
		Score:         clamp(score, 0, 100),
		PaidRatio:     paidRatio,
		Participation: participation,
		Messages:      messages,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
