// Package prefs builds the time-announcement preference document for the
// com.apple.speech.synthesis.general.prefs domain.
package prefs

import (
	"fmt"

	"github.com/kickingvegas/clocktalk/internal/validate"
)

// Domain is the preference domain clocktalk configures.
const Domain = "com.apple.speech.synthesis.general.prefs"

// PhraseShortTime is the only phrase identifier clocktalk writes.
const PhraseShortTime = "ShortTime"

var (
	// VolumeRange bounds CustomVolume for the standard builder.
	VolumeRange = validate.Closed(0.3, 1.0)
	// LegacyVolumeRange is the looser volume check genclocktalkd applies.
	LegacyVolumeRange = validate.Interval{Min: 0.0, Max: 1.0, MaxInc: true}
	// RateRange bounds CustomRelativeRate.
	RateRange = validate.Closed(0.5, 2.0)
)

// DefaultVolume is used when no volume is given.
const DefaultVolume = 0.5

// Settings are the user-facing knobs of a time announcement.
// Rate is nil when no relative rate should be written.
type Settings struct {
	Enabled bool
	Period  Period
	Volume  float64
	Rate    *float64
}

// Document is the value imported into Domain.
type Document struct {
	TimeAnnouncementPrefs TimeAnnouncementPrefs `plist:"TimeAnnouncementPrefs" json:"TimeAnnouncementPrefs"`
}

type TimeAnnouncementPrefs struct {
	Enabled            bool          `plist:"TimeAnnouncementsEnabled" json:"TimeAnnouncementsEnabled"`
	IntervalIdentifier string        `plist:"TimeAnnouncementsIntervalIdentifier" json:"TimeAnnouncementsIntervalIdentifier"`
	PhraseIdentifier   string        `plist:"TimeAnnouncementsPhraseIdentifier" json:"TimeAnnouncementsPhraseIdentifier"`
	VoiceSettings      VoiceSettings `plist:"TimeAnnouncementsVoiceSettings" json:"TimeAnnouncementsVoiceSettings"`
}

type VoiceSettings struct {
	CustomVolume       float64  `plist:"CustomVolume" json:"CustomVolume"`
	CustomRelativeRate *float64 `plist:"CustomRelativeRate,omitempty" json:"CustomRelativeRate,omitempty"`
}

// Builder turns Settings into a Document. The two schema variants differ
// only in the volume interval they accept.
type Builder struct {
	Volume validate.Interval
	Rate   validate.Interval
}

var (
	Standard = Builder{Volume: VolumeRange, Rate: RateRange}
	Legacy   = Builder{Volume: LegacyVolumeRange, Rate: RateRange}
)

// Check validates s against the builder's intervals.
func (b Builder) Check(s Settings) error {
	if !s.Period.valid() {
		return fmt.Errorf("invalid period %v", s.Period)
	}
	if err := b.Volume.Check("volume", s.Volume); err != nil {
		return err
	}
	if s.Rate != nil {
		if err := b.Rate.Check("rate", *s.Rate); err != nil {
			return err
		}
	}
	return nil
}

// Build validates s and returns the corresponding document.
func (b Builder) Build(s Settings) (Document, error) {
	if err := b.Check(s); err != nil {
		return Document{}, err
	}
	vs := VoiceSettings{CustomVolume: s.Volume}
	if s.Rate != nil {
		r := *s.Rate
		vs.CustomRelativeRate = &r
	}
	return Document{
		TimeAnnouncementPrefs: TimeAnnouncementPrefs{
			Enabled:            s.Enabled,
			IntervalIdentifier: s.Period.Identifier(),
			PhraseIdentifier:   PhraseShortTime,
			VoiceSettings:      vs,
		},
	}, nil
}

// Build uses the Standard builder.
func Build(s Settings) (Document, error) { return Standard.Build(s) }
