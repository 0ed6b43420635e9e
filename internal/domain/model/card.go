package model

import "time"

type Card struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name" validate:"required,min=2,max=30"`
	Link      string    `json:"link" validate:"required,weburl"`
	Owner     string    `json:"owner" validate:"required,objectid"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewCard(name, link, owner string) *Card {
	return &Card{
		Name:  name,
		Link:  link,
		Owner: owner,
		Likes: []string{},
	}
}

// IsOwnedBy reports whether userID created the card.
func (c *Card) IsOwnedBy(userID string) bool {
	return c.Owner == userID
}
