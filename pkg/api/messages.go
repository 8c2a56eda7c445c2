package api

// AuthService

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type RegisterResponse struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *Profile `json:"user"`
}

type UpdatePushEndpointRequest struct {
	// Endpoint may be empty to stop offline notifications.
	Endpoint string `json:"endpoint"`
}

type UpdatePushEndpointResponse struct {
	User *Profile `json:"user"`
}

// GroupService

type CreateGroupRequest struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type ListMyGroupsRequest struct{}

type ListMyGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type UpdateGroupRequest struct {
	GroupID   string  `json:"groupId"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type JoinGroupRequest struct {
	GroupID string `json:"groupId"`
}

type JoinGroupResponse struct {
	Group *Group `json:"group"`
	// Joined is false when the caller was already a member.
	Joined bool `json:"joined"`
}

type ListActivityRequest struct {
	GroupID string `json:"groupId"`
	Limit   int    `json:"limit,omitempty"`
}

type ListActivityResponse struct {
	Events []*ActivityEvent `json:"events"`
}

type GetGroupSummaryRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupSummaryResponse struct {
	Summary *GroupSummary `json:"summary"`
}

// ContributionService

type CreateContributionRequest struct {
	GroupID string  `json:"groupId"`
	Amount  float64 `json:"amount"`
	// Paid defaults to true: a contribution records a deposit.
	Paid *bool `json:"paid,omitempty"`
}

type CreateContributionResponse struct {
	Contribution *Contribution `json:"contribution"`
}

type ListContributionsRequest struct {
	// UserID defaults to the caller.
	UserID string `json:"userId,omitempty"`
}

type ListContributionsResponse struct {
	Contributions []*Contribution `json:"contributions"`
}

type ListGroupContributionsRequest struct {
	GroupID string `json:"groupId"`
}

type ListGroupContributionsResponse struct {
	Contributions []*Contribution `json:"contributions"`
}

// TurnService

type CreateTurnRequest struct {
	GroupID       string `json:"groupId"`
	BeneficiaryID string `json:"beneficiaryId"`
	Order         int    `json:"order"`
	ScheduledAt   int64  `json:"scheduledAt"`
}

type CreateTurnResponse struct {
	Turn *Turn `json:"turn"`
}

type ListTurnsRequest struct {
	GroupID string `json:"groupId"`
}

type ListTurnsResponse struct {
	Turns []*Turn `json:"turns"`
}

type PayTurnRequest struct {
	TurnID string `json:"turnId"`
}

type PayTurnResponse struct {
	Turn *Turn `json:"turn"`
}

// MessageService

type SendMessageRequest struct {
	GroupID string `json:"groupId"`
	Content string `json:"content"`
}

type SendMessageResponse struct {
	Message *Message `json:"message"`
}

type ListMessagesRequest struct {
	GroupID string `json:"groupId"`
	Limit   int    `json:"limit,omitempty"`
}

type ListMessagesResponse struct {
	Messages []*Message `json:"messages"`
}

// InvitationService

type CreateInvitationRequest struct {
	GroupID     string `json:"groupId"`
	RecipientID string `json:"recipientId"`
}

type CreateInvitationResponse struct {
	Invitation *Invitation `json:"invitation"`
}

type ListPendingInvitationsRequest struct{}

type ListPendingInvitationsResponse struct {
	Invitations []*Invitation `json:"invitations"`
}

type AcceptInvitationRequest struct {
	InvitationID string `json:"invitationId"`
}

type AcceptInvitationResponse struct {
	Invitation *Invitation `json:"invitation"`
	Group      *Group      `json:"group"`
}

type RejectInvitationRequest struct {
	InvitationID string `json:"invitationId"`
}

type RejectInvitationResponse struct {
	Invitation *Invitation `json:"invitation"`
}

// UserService

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type GetReliabilityRequest struct {
	// UserID defaults to the caller.
	UserID string `json:"userId,omitempty"`
}

type GetReliabilityResponse struct {
	Reliability *Reliability `json:"reliability"`
}
