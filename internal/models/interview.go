package models

import "time"

// Interview is a generated set of questions together with the parameters that produced it.
// It is created once after a successful generation and never mutated afterwards.
type Interview struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	Type       string    `json:"type"`
	Level      string    `json:"level"`
	TechStack  []string  `json:"techstack"`
	Questions  []string  `json:"questions"`
	UserID     string    `json:"userId"`
	Finalized  bool      `json:"finalized"`
	CoverImage string    `json:"coverImage"`
	Amount     int       `json:"amount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// interview focus types, free text upstream but normalized to these when recognized
const (
	InterviewTypeBehavioral = "behavioral"
	InterviewTypeTechnical  = "technical"
	InterviewTypeMixed      = "mixed"
)

// the covers shipped with the web client, served under /covers
var InterviewCovers = []string{
	"/adobe.png",
	"/amazon.png",
	"/facebook.png",
	"/hostinger.png",
	"/pinterest.png",
	"/quora.png",
	"/reddit.png",
	"/skype.png",
	"/spotify.png",
	"/telegram.png",
	"/tiktok.png",
	"/yahoo.png",
}
