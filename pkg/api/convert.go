package api

import "github.com/tontine-app/tontine/internal/models"

// The From* helpers project storage models onto wire messages.

func FromUserRef(r models.UserRef) User {
	return User{ID: r.ID, Name: r.Name, Email: r.Email}
}

func FromUser(u *models.User) *User {
	ref := FromUserRef(u.Ref())
	return &ref
}

func FromUsers(users []*models.User) []*User {
	out := make([]*User, len(users))
	for i, u := range users {
		out[i] = FromUser(u)
	}
	return out
}

func ProfileFromUser(u *models.User) *Profile {
	return &Profile{
		ID:           u.ID,
		Name:         u.DisplayName,
		Email:        u.Email,
		PushEndpoint: u.PushEndpoint,
		CreatedAt:    u.CreatedAt,
	}
}

func FromGroup(g *models.Group) *Group {
	members := make([]User, len(g.Members))
	for i, m := range g.Members {
		members[i] = FromUserRef(m)
	}
	return &Group{
		ID:        g.ID,
		Name:      g.Name,
		Amount:    g.Amount,
		Frequency: string(g.Frequency),
		Admin:     FromUserRef(g.Admin),
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}

func FromGroups(groups []*models.Group) []*Group {
	out := make([]*Group, len(groups))
	for i, g := range groups {
		out[i] = FromGroup(g)
	}
	return out
}

func FromContribution(c *models.Contribution) *Contribution {
	return &Contribution{
		ID:        c.ID,
		GroupID:   c.GroupID,
		User:      FromUserRef(c.User),
		Amount:    c.Amount,
		Paid:      c.Paid,
		CreatedAt: c.CreatedAt,
	}
}

func FromContributions(cs []*models.Contribution) []*Contribution {
	out := make([]*Contribution, len(cs))
	for i, c := range cs {
		out[i] = FromContribution(c)
	}
	return out
}

func FromTurn(t *models.Turn) *Turn {
	return &Turn{
		ID:          t.ID,
		GroupID:     t.GroupID,
		Beneficiary: FromUserRef(t.Beneficiary),
		Order:       t.Order,
		ScheduledAt: t.ScheduledAt,
		IsPaid:      t.IsPaid,
		CreatedAt:   t.CreatedAt,
	}
}

func FromTurns(ts []*models.Turn) []*Turn {
	out := make([]*Turn, len(ts))
	for i, t := range ts {
		out[i] = FromTurn(t)
	}
	return out
}

func FromInvitation(inv *models.Invitation) *Invitation {
	return &Invitation{
		ID:         inv.ID,
		GroupID:    inv.GroupID,
		GroupName:  inv.GroupName,
		Sender:     FromUserRef(inv.Sender),
		Recipient:  FromUserRef(inv.Recipient),
		Status:     string(inv.Status),
		CreatedAt:  inv.CreatedAt,
		ResolvedAt: inv.ResolvedAt,
	}
}

func FromInvitations(invs []*models.Invitation) []*Invitation {
	out := make([]*Invitation, len(invs))
	for i, inv := range invs {
		out[i] = FromInvitation(inv)
	}
	return out
}

func FromActivity(e *models.ActivityEvent) *ActivityEvent {
	return &ActivityEvent{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Actor:       FromUserRef(e.Actor),
		Kind:        string(e.Kind),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func FromActivities(es []*models.ActivityEvent) []*ActivityEvent {
	out := make([]*ActivityEvent, len(es))
	for i, e := range es {
		out[i] = FromActivity(e)
	}
	return out
}

func FromMessage(m *models.Message) *Message {
	return &Message{
		ID:        m.ID,
		GroupID:   m.GroupID,
		Sender:    FromUserRef(m.Sender),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func FromMessages(ms []*models.Message) []*Message {
	out := make([]*Message, len(ms))
	for i, m := range ms {
		out[i] = FromMessage(m)
	}
	return out
}
