package models

import "time"

// Badge is a badge placed on a user's mural, stored in Firestore under
// users/{uid}/badges/{badgeId}. X and Y are logical grid cells; Width and
// Height are fixed when the badge is created.
type Badge struct {
	BadgeID   string    `firestore:"-" json:"badgeId"`
	Name      string    `firestore:"name,omitempty" json:"name"`
	ImageURL  string    `firestore:"imageUrl,omitempty" json:"imageUrl"`
	Width     int       `firestore:"width" json:"width"`
	Height    int       `firestore:"height" json:"height"`
	X         int       `firestore:"x" json:"x"`
	Y         int       `firestore:"y" json:"y"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// ApplyDefaults fills in fields older documents may lack.
func (b *Badge) ApplyDefaults() {
	if b.Width < 1 {
		b.Width = 1
	}
	if b.Height < 1 {
		b.Height = 1
	}
}
