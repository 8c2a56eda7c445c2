// Package api defines the JSON messages exchanged over the Connect RPC
// services. Timestamps are Unix seconds.
package api

// User is the public view of another user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is the caller's own account.
type Profile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PushEndpoint string `json:"pushEndpoint,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
}

type Group struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	Admin     User    `json:"admin"`
	Members   []User  `json:"members"`
	CreatedAt int64   `json:"createdAt"`
}

type Contribution struct {
	ID        string  `json:"id"`
	GroupID   string  `json:"groupId"`
	User      User    `json:"user"`
	Amount    float64 `json:"amount"`
	Paid      bool    `json:"paid"`
	CreatedAt int64   `json:"createdAt"`
}

type Turn struct {
	ID          string `json:"id"`
	GroupID     string `json:"groupId"`
	Beneficiary User   `json:"beneficiary"`
	Order       int    `json:"order"`
	ScheduledAt int64  `json:"scheduledAt"`
	IsPaid      bool   `json:"isPaid"`
	CreatedAt   int64  `json:"createdAt"`
}

type Invitation struct {
	ID         string `json:"id"`
	GroupID    string `json:"groupId"`
	GroupName  string `json:"groupName"`
	Sender     User   `json:"sender"`
	Recipient  User   `json:"recipient"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"createdAt"`
	ResolvedAt int64  `json:"resolvedAt,omitempty"`
}

type ActivityEvent struct {
	ID          string `json:"id"`
	GroupID     string `json:"groupId"`
	Actor       User   `json:"actor"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"createdAt"`
}

type Message struct {
	ID        string `json:"id"`
	GroupID   string `json:"groupId"`
	Sender    User   `json:"sender"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

// Reliability is a user's 0-100 score and the inputs it was derived from.
type Reliability struct {
	UserID            string  `json:"userId"`
	Score             float64 `json:"score"`
	PaidRatio         float64 `json:"paidRatio"`
	Participation     float64 `json:"participation"`
	Contributions     int     `json:"contributions"`
	PaidContributions int     `json:"paidContributions"`
	Messages          int     `json:"messages"`
}

// MemberStanding is one member's position in a group's pool.
type MemberStanding struct {
	User          User    `json:"user"`
	Contributed   float64 `json:"contributed"`
	Outstanding   float64 `json:"outstanding"`
	Deposits      int     `json:"deposits"`
	TurnsReceived int     `json:"turnsReceived"`
}

// GroupSummary aggregates a group's contributions and turns.
type GroupSummary struct {
	GroupID          string            `json:"groupId"`
	ExpectedAmount   float64           `json:"expectedAmount"`
	TotalContributed float64           `json:"totalContributed"`
	TotalOutstanding float64           `json:"totalOutstanding"`
	TurnsScheduled   int               `json:"turnsScheduled"`
	TurnsPaid        int               `json:"turnsPaid"`
	NextTurn         *Turn             `json:"nextTurn,omitempty"`
	Members          []*MemberStanding `json:"members"`
}
