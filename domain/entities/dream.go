package entities

import (
	"errors"
	"time"
)

// DreamRecord is one persisted unit of work: the transcribed dream text,
// its emotion distribution, and a reference to the generated illustration.
// Records are immutable once appended to history; this system never
// updates or deletes them.
type DreamRecord struct {
	Timestamp string              `json:"timestamp" bson:"timestamp"`
	Text      string              `json:"text" bson:"text"`
	Emotions  EmotionDistribution `json:"emotions" bson:"emotions"`
	ImagePath string              `json:"image_path" bson:"image_path"`
}

// NewDreamRecord stamps a record at creation time. The ISO-8601 timestamp
// doubles as sort key and display key; two records created within the
// same instant would collide, a known limitation of the format.
func NewDreamRecord(text string, emotions EmotionDistribution, imagePath string) *DreamRecord {
	if emotions == nil {
		emotions = EmotionDistribution{}
	}
	return &DreamRecord{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Text:      text,
		Emotions:  emotions,
		ImagePath: imagePath,
	}
}

// Time parses the record's timestamp for display and sorting.
func (r *DreamRecord) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, r.Timestamp)
}

func (r *DreamRecord) Validate() error {
	if r.Timestamp == "" {
		return errors.New("timestamp is required")
	}
	if r.Text == "" {
		return errors.New("text is required")
	}
	return nil
}
