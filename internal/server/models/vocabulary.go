package models

import "time"

// DefaultLanguage is applied to vocabularies created without a language.
const DefaultLanguage = "en"

// Vocabulary is a single word entry owned by one user.
type Vocabulary struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Word     string `json:"word"`
	Meaning  string `json:"meaning"`
	Example  string `json:"example,omitempty"`
	Category string `json:"category,omitempty"`
	Language string `json:"language"`
	// AudioKey is the object-storage key of the pronunciation clip, empty
	// when none was attached.
	AudioKey  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Owner returns the id of the owning user.
func (v *Vocabulary) Owner() string { return v.OwnerID }

// Favorite marks a vocabulary as favorited by a user. A (UserID,
// VocabularyID) pair exists at most once.
type Favorite struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	VocabularyID string    `json:"vocabulary_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Owner returns the id of the user who created the favorite.
func (f *Favorite) Owner() string { return f.UserID }

// MaxListLimit caps the page size of vocabulary listings.
const MaxListLimit = 100

// VocabularyFilter narrows an owner-scoped vocabulary listing.
type VocabularyFilter struct {
	Category string
	Skip     int
	Limit    int
}

// Normalize clamps Skip and Limit into the accepted range.
func (f VocabularyFilter) Normalize() VocabularyFilter {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 || f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	return f
}
