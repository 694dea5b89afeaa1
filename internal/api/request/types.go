package request

// CreateRoomRequest is the body for POST /api/v1/rooms
type CreateRoomRequest struct {
	Name         string `json:"name"`
	IsPublic     bool   `json:"isPublic"`
	Password     string `json:"password,omitempty"`
	MaxPlayers   int    `json:"maxPlayers"`
	CreatorID    string `json:"creatorId"`
	CreatorName  string `json:"creatorName"`
	TargetNumber string `json:"targetNumber,omitempty"`
	TargetDigits int    `json:"targetDigits,omitempty"`
}

// ValidateJoinRequest is the body for POST /api/v1/rooms/{room_id}/join
type ValidateJoinRequest struct {
	Password string `json:"password,omitempty"`
}
