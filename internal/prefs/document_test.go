package prefs

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/kickingvegas/clocktalk/internal/render"
	"github.com/kickingvegas/clocktalk/internal/validate"
)

func ptr(f float64) *float64 { return &f }

func TestBuildQuarterWithoutRate(t *testing.T) {
	t.Parallel()
	doc, err := Build(Settings{Enabled: true, Period: QuarterHour, Volume: 0.75})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	p := doc.TimeAnnouncementPrefs
	if !p.Enabled {
		t.Fatal("Enabled = false, want true")
	}
	if p.IntervalIdentifier != "EveryQuarterHourInterval" {
		t.Fatalf("IntervalIdentifier = %q", p.IntervalIdentifier)
	}
	if p.PhraseIdentifier != PhraseShortTime {
		t.Fatalf("PhraseIdentifier = %q", p.PhraseIdentifier)
	}
	if p.VoiceSettings.CustomVolume != 0.75 {
		t.Fatalf("CustomVolume = %v, want 0.75", p.VoiceSettings.CustomVolume)
	}
	if p.VoiceSettings.CustomRelativeRate != nil {
		t.Fatalf("CustomRelativeRate = %v, want absent", *p.VoiceSettings.CustomRelativeRate)
	}
}

func TestBuildDisabledKeepsConfiguration(t *testing.T) {
	t.Parallel()
	doc, err := Build(Settings{Period: Hour, Volume: DefaultVolume})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	p := doc.TimeAnnouncementPrefs
	if p.Enabled {
		t.Fatal("Enabled = true, want false")
	}
	if p.IntervalIdentifier != "EveryHourInterval" || p.PhraseIdentifier == "" || p.VoiceSettings.CustomVolume != 0.5 {
		t.Fatalf("disabled document is missing fields: %+v", p)
	}

	out, err := render.Marshal(doc, render.XML)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	for _, key := range []string{"TimeAnnouncementsEnabled", "TimeAnnouncementsIntervalIdentifier", "TimeAnnouncementsPhraseIdentifier", "CustomVolume"} {
		if !bytes.Contains(out, []byte(key)) {
			t.Fatalf("plist lacks %s:\n%s", key, out)
		}
	}
}

func TestBuildRejectsOutOfRange(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		builder Builder
		s       Settings
	}{
		{name: "volume too loud", builder: Standard, s: Settings{Volume: 1.5}},
		{name: "volume too quiet", builder: Standard, s: Settings{Volume: 0.2}},
		{name: "legacy zero volume", builder: Legacy, s: Settings{Volume: 0}},
		{name: "rate too slow", builder: Standard, s: Settings{Volume: 0.5, Rate: ptr(0.4)}},
		{name: "rate too fast", builder: Legacy, s: Settings{Volume: 0.5, Rate: ptr(2.01)}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc, err := tt.builder.Build(tt.s)
			var re *validate.RangeError
			if !errors.As(err, &re) {
				t.Fatalf("Build = %+v, %v; want RangeError", doc, err)
			}
			if doc != (Document{}) {
				t.Fatalf("Build returned a document on error: %+v", doc)
			}
		})
	}
}

func TestLegacyAcceptsQuietVolume(t *testing.T) {
	t.Parallel()
	if _, err := Legacy.Build(Settings{Volume: 0.1}); err != nil {
		t.Fatalf("Legacy.Build error: %v", err)
	}
	if _, err := Standard.Build(Settings{Volume: 0.1}); err == nil {
		t.Fatal("Standard.Build accepted volume 0.1")
	}
}

func TestRateOmission(t *testing.T) {
	t.Parallel()
	without, err := Build(Settings{Enabled: true, Volume: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	with, err := Build(Settings{Enabled: true, Volume: 0.5, Rate: ptr(1.0)})
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range []render.Format{render.XML, render.Binary, render.JSON} {
		out, err := render.Marshal(without, f)
		if err != nil {
			t.Fatalf("%s marshal: %v", f, err)
		}
		if bytes.Contains(out, []byte("CustomRelativeRate")) {
			t.Fatalf("%s output contains CustomRelativeRate:\n%s", f, out)
		}
		out, err = render.Marshal(with, f)
		if err != nil {
			t.Fatalf("%s marshal: %v", f, err)
		}
		if !bytes.Contains(out, []byte("CustomRelativeRate")) {
			t.Fatalf("%s output lacks CustomRelativeRate:\n%s", f, out)
		}
	}

	var generic map[string]any
	b, _ := render.Marshal(with, render.XML)
	if err := render.Unmarshal(b, &generic); err != nil {
		t.Fatal(err)
	}
	prefs, _ := generic["TimeAnnouncementPrefs"].(map[string]any)
	vs, _ := prefs["TimeAnnouncementsVoiceSettings"].(map[string]any)
	if got, ok := vs["CustomRelativeRate"].(float64); !ok || got != 1.0 {
		t.Fatalf("CustomRelativeRate = %#v, want 1.0", vs["CustomRelativeRate"])
	}
}

func TestPlistRoundTrip(t *testing.T) {
	t.Parallel()
	docs := []Settings{
		{Enabled: true, Period: QuarterHour, Volume: 0.75},
		{Enabled: false, Period: HalfHour, Volume: 0.3, Rate: ptr(1.25)},
		{Enabled: true, Period: Hour, Volume: 1.0, Rate: ptr(2.0)},
	}
	for _, s := range docs {
		doc, err := Build(s)
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range []render.Format{render.XML, render.Binary} {
			b, err := render.Marshal(doc, f)
			if err != nil {
				t.Fatalf("%s marshal: %v", f, err)
			}
			var got Document
			if err := render.Unmarshal(b, &got); err != nil {
				t.Fatalf("%s unmarshal: %v", f, err)
			}
			if !reflect.DeepEqual(got, doc) {
				t.Fatalf("%s round trip mismatch:\n got %+v\nwant %+v", f, got, doc)
			}
		}
	}
}

func TestJSONMatchesLayout(t *testing.T) {
	t.Parallel()
	doc, err := Build(Settings{Enabled: true, Period: Hour, Volume: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	got, err := render.Marshal(doc, render.JSON)
	if err != nil {
		t.Fatal(err)
	}
	want := `{
    "TimeAnnouncementPrefs": {
        "TimeAnnouncementsEnabled": true,
        "TimeAnnouncementsIntervalIdentifier": "EveryHourInterval",
        "TimeAnnouncementsPhraseIdentifier": "ShortTime",
        "TimeAnnouncementsVoiceSettings": {
            "CustomVolume": 0.5
        }
    }
}
`
	if string(got) != want {
		t.Fatalf("json output:\n%s\nwant:\n%s", got, want)
	}
}
