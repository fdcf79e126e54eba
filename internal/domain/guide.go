package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Experience and badge rules for the guide reader.
const (
	ChapterXP     = 10
	GuideBonusXP  = 50
	XPPerLevel    = 100
	BookwormCount = 10
	StreakTarget  = 3
)

// Badge identifiers.
const (
	BadgeFirstSteps = "first-steps"
	BadgeBookworm   = "bookworm"
	BadgeFinisher   = "finisher"
	BadgeStreak3    = "streak-3"
)

// Chapter is one section of a guide.
type Chapter struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Body    string `json:"body" yaml:"body"`
	Minutes int    `json:"minutes" yaml:"minutes"`
}

// Guide is a multi-chapter article from the guide library.
type Guide struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Summary  string    `json:"summary" yaml:"summary"`
	Category string    `json:"category" yaml:"category"`
	Level    Level     `json:"difficulty" yaml:"difficulty"`
	Icon     Icon      `json:"icon" yaml:"icon"`
	Chapters []Chapter `json:"chapters" yaml:"chapters"`
}

// HasChapter reports whether id names a chapter of g.
func (g Guide) HasChapter(id string) bool {
	return slices.ContainsFunc(g.Chapters, func(c Chapter) bool { return c.ID == id })
}

// GuideProgress is the persisted reading progress of a workspace.
type GuideProgress struct {
	XP                int                  `json:"xp"`
	CompletedChapters map[string][]string  `json:"completedChapters"`
	CompletedGuides   map[string]time.Time `json:"completedGuides"`
	Badges            []string             `json:"badges"`
	Streak            int                  `json:"streak"`
	LastActive        string               `json:"lastActive,omitempty"` // YYYY-MM-DD
}

// Level derives the reader level from experience.
func (p GuideProgress) Level() int {
	return p.XP/XPPerLevel + 1
}

// ChaptersRead counts completed chapters across every guide.
func (p GuideProgress) ChaptersRead() int {
	n := 0
	for _, ch := range p.CompletedChapters {
		n += len(ch)
	}

	return n
}

// GuideComplete reports whether the guide has been finished.
func (p GuideProgress) GuideComplete(guideID string) bool {
	_, ok := p.CompletedGuides[guideID]
	return ok
}

// ChapterResult describes what completing a chapter changed.
type ChapterResult struct {
	XPAwarded      int      `json:"xpAwarded"`
	AlreadyDone    bool     `json:"alreadyDone"`
	GuideCompleted bool     `json:"guideCompleted"`
	NewBadges      []string `json:"newBadges"`
	Level          int      `json:"level"`
}

// CompleteChapter records chapterID of g as read at now. Re-reading a chapter
// awards nothing. Finishing the last chapter adds the guide bonus once.
func CompleteChapter(p GuideProgress, g Guide, chapterID string, now time.Time) (GuideProgress, ChapterResult, error) {
	if !g.HasChapter(chapterID) {
		return p, ChapterResult{}, NewNotFoundError("chapter", chapterID)
	}

	p = p.clone()
	res := ChapterResult{NewBadges: []string{}}

	p.touch(now)

	if slices.Contains(p.CompletedChapters[g.ID], chapterID) {
		res.AlreadyDone = true
	} else {
		p.CompletedChapters[g.ID] = append(p.CompletedChapters[g.ID], chapterID)
		p.XP += ChapterXP
		res.XPAwarded += ChapterXP

		if !p.GuideComplete(g.ID) && len(p.CompletedChapters[g.ID]) >= len(g.Chapters) {
			p.CompletedGuides[g.ID] = now.UTC()
			p.XP += GuideBonusXP
			res.XPAwarded += GuideBonusXP
			res.GuideCompleted = true
		}
	}

	for _, b := range p.earnedBadges() {
		if !slices.Contains(p.Badges, b) {
			p.Badges = append(p.Badges, b)
			res.NewBadges = append(res.NewBadges, b)
		}
	}

	res.Level = p.Level()

	return p, res, nil
}

func (p GuideProgress) earnedBadges() []string {
	var out []string
	if p.ChaptersRead() >= 1 {
		out = append(out, BadgeFirstSteps)
	}
	if p.ChaptersRead() >= BookwormCount {
		out = append(out, BadgeBookworm)
	}
	if len(p.CompletedGuides) >= 1 {
		out = append(out, BadgeFinisher)
	}
	if p.Streak >= StreakTarget {
		out = append(out, BadgeStreak3)
	}

	return out
}

// touch advances the daily streak: consecutive days extend it, a gap resets it.
func (p *GuideProgress) touch(now time.Time) {
	today := now.UTC().Format(time.DateOnly)
	yesterday := now.UTC().AddDate(0, 0, -1).Format(time.DateOnly)

	switch p.LastActive {
	case today:
	case yesterday:
		p.Streak++
	default:
		p.Streak = 1
	}

	p.LastActive = today
}

func (p GuideProgress) clone() GuideProgress {
	out := p
	out.CompletedChapters = make(map[string][]string, len(p.CompletedChapters))
	for k, v := range p.CompletedChapters {
		out.CompletedChapters[k] = slices.Clone(v)
	}
	out.CompletedGuides = make(map[string]time.Time, len(p.CompletedGuides))
	for k, v := range p.CompletedGuides {
		out.CompletedGuides[k] = v
	}
	out.Badges = slices.Clone(p.Badges)

	return out
}

// GuideStatus is the reader's progress through a single guide.
type GuideStatus struct {
	GuideID   string   `json:"guideId"`
	Completed []string `json:"completedChapters"`
	Total     int      `json:"totalChapters"`
	Percent   int      `json:"percent"`
	Finished  bool     `json:"finished"`
}

// StatusFor reports progress through g.
func (p GuideProgress) StatusFor(g Guide) GuideStatus {
	done := p.CompletedChapters[g.ID]
	s := GuideStatus{GuideID: g.ID, Completed: append([]string{}, done...), Total: len(g.Chapters), Finished: p.GuideComplete(g.ID)}
	if s.Total > 0 {
		s.Percent = min(100, len(done)*100/s.Total)
	}

	return s
}

// Certificate attests that a guide was completed.
type Certificate struct {
	GuideID     string    `json:"guideId"`
	GuideTitle  string    `json:"guideTitle"`
	Recipient   string    `json:"recipient"`
	CompletedAt time.Time `json:"completedAt"`
	XP          int       `json:"xp"`
	Level       int       `json:"level"`
}

// IssueCertificate returns a certificate for g, or a ForbiddenError while the
// guide is unfinished.
func IssueCertificate(p GuideProgress, g Guide, recipient string) (Certificate, error) {
	at, ok := p.CompletedGuides[g.ID]
	if !ok {
		return Certificate{}, NewForbiddenError("issue certificate", "guide "+g.ID+" is not complete")
	}

	if strings.TrimSpace(recipient) == "" {
		recipient = "Startup Founder"
	}

	return Certificate{
		GuideID:     g.ID,
		GuideTitle:  g.Title,
		Recipient:   recipient,
		CompletedAt: at,
		XP:          p.XP,
		Level:       p.Level(),
	}, nil
}

// Text renders the certificate as plain text.
func (c Certificate) Text() string {
	var b strings.Builder
	b.WriteString("CERTIFICATE OF COMPLETION\n\n")
	fmt.Fprintf(&b, "This certifies that %s\n", c.Recipient)
	fmt.Fprintf(&b, "has completed the guide %q\n", c.GuideTitle)
	fmt.Fprintf(&b, "on %s.\n\n", c.CompletedAt.Format(time.DateOnly))
	fmt.Fprintf(&b, "Level %d, %d XP\n", c.Level, c.XP)

	return b.String()
}

// GuideText renders the whole guide as plain text.
func GuideText(g Guide) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n%s\n", g.Title, strings.Repeat("=", len(g.Title)), g.Summary)
	for i, c := range g.Chapters {
		fmt.Fprintf(&b, "\n%d. %s\n\n%s\n", i+1, c.Title, strings.TrimSpace(c.Body))
	}

	return b.String()
}
