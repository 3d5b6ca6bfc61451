package model

import (
	"bytes"
	"encoding/json"
)

// CategoryUnclassified is the category filter sentinel that selects
// messages without a classification.
const CategoryUnclassified = "unclassified"

// DefaultCategories is the category vocabulary used until the backend
// provides its own.
var DefaultCategories = []string{"업무", "개인", "금융", "프로모션", "뉴스레터", "알림", "중요"}

// ClassificationInfo is the classification attached to a message.
type ClassificationInfo struct {
	ClassificationID int64    `json:"classification_id"`
	Category         string   `json:"category"`
	Confidence       *float64 `json:"confidence"`
	UserFeedback     *string  `json:"user_feedback"`
}

// Classification is either Classified, carrying a ClassificationInfo,
// or Unclassified. The zero value is Unclassified.
type Classification struct {
	info       ClassificationInfo
	classified bool
}

// Classified wraps info as a classified variant.
func Classified(info ClassificationInfo) Classification {
	return Classification{info: info, classified: true}
}

// Unclassified returns the unclassified variant.
func Unclassified() Classification {
	return Classification{}
}

// Info returns the classification details and whether the message is
// classified at all.
func (c Classification) Info() (ClassificationInfo, bool) {
	return c.info, c.classified
}

// IsClassified reports whether the variant is Classified.
func (c Classification) IsClassified() bool {
	return c.classified
}

// Corrected returns the classification after a human moved it to
// category. Confidence is kept as is. Unclassified stays unclassified.
func (c Classification) Corrected(category string) Classification {
	if !c.classified {
		return c
	}
	info := c.info
	info.Category = category
	feedback := category
	info.UserFeedback = &feedback
	return Classified(info)
}

// MarshalJSON encodes Unclassified as null.
func (c Classification) MarshalJSON() ([]byte, error) {
	if !c.classified {
		return []byte("null"), nil
	}
	return json.Marshal(c.info)
}

// UnmarshalJSON decodes null as Unclassified.
func (c *Classification) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = Unclassified()
		return nil
	}
	var info ClassificationInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return err
	}
	*c = Classified(info)
	return nil
}
