package app

import (
	"ham-quiz-trainer/internal/domain"
	"ham-quiz-trainer/internal/progress"
)

// Snapshot is what the view layer gets after every transition. Exactly one of
// the mode-specific views is set.
type Snapshot struct {
	Mode     Mode          `json:"mode"`
	Intro    *IntroView    `json:"intro,omitempty"`
	Question *QuestionView `json:"question,omitempty"`
	Results  *ResultsView  `json:"results,omitempty"`
}

// SectionView decorates a bank section with its selection state.
type SectionView struct {
	domain.Section
	Selected bool `json:"selected"`
}

// IntroView backs the section-picker screen.
type IntroView struct {
	Sections      []SectionView `json:"sections"`
	SelectedCount int           `json:"selectedCount"`
	SessionSize   int           `json:"sessionSize"`
}

// AnswerFeedback is revealed once the current question has been answered.
type AnswerFeedback struct {
	Selected    domain.Letter `json:"selected"`
	Correct     bool          `json:"correct"`
	Answer      domain.Letter `json:"answer"`
	Explanation string        `json:"explanation,omitempty"`
}

// QuestionView backs the one-question-at-a-time quiz screen. The correct
// letter and the explanation are stripped until the question is answered.
type QuestionView struct {
	Index        int                      `json:"index"`
	Total        int                      `json:"total"`
	Question     domain.Question          `json:"question"`
	CorrectCount int                      `json:"correctCount"`
	Streak       int                      `json:"streak"`
	Pending      *domain.PendingSelection `json:"pending,omitempty"`
	Feedback     *AnswerFeedback          `json:"feedback,omitempty"`
}

// ResultsView backs the summary screen.
type ResultsView struct {
	Summary           domain.Summary      `json:"summary"`
	OverallAttempts   int                 `json:"overallAttempts"`
	OverallCorrect    int                 `json:"overallCorrect"`
	OverallPercentage int                 `json:"overallPercentage"`
	BestStreak        int                 `json:"bestStreak"`
	WeakTopics        []domain.TopicScore `json:"weakTopics"`
	CanReviewWrong    bool                `json:"canReviewWrong"`
}

func introSnapshot(sections []domain.Section, selected []string, sessionSize int) Snapshot {
	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	views := make([]SectionView, 0, len(sections))
	count := 0
	for _, sec := range sections {
		view := SectionView{Section: sec, Selected: selectedSet[sec.ID]}
		if view.Selected {
			count += sec.Count
		}
		views = append(views, view)
	}
	return Snapshot{
		Mode: ModeIntro,
		Intro: &IntroView{
			Sections:      views,
			SelectedCount: count,
			SessionSize:   sessionSize,
		},
	}
}

func quizSnapshot(v sessionView) Snapshot {
	q := v.questions[v.idx]

	var feedback *AnswerFeedback
	if rec, answered := v.answers[q.ID]; answered {
		feedback = &AnswerFeedback{
			Selected:    rec.Selected,
			Correct:     rec.Selected == q.Answer,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		}
	} else {
		// Do not leak the answer key to unanswered clients.
		q.Answer = ""
		q.Explanation = ""
	}

	var pending *domain.PendingSelection
	if v.pending != nil && v.pending.QID == q.ID && feedback == nil {
		pending = v.pending
	}
	return Snapshot{
		Mode: ModeQuiz,
		Question: &QuestionView{
			Index:        v.idx,
			Total:        len(v.questions),
			Question:     q,
			CorrectCount: v.correctCount,
			Streak:       v.streak,
			Pending:      pending,
			Feedback:     feedback,
		},
	}
}

func resultsSnapshot(v sessionView, p *progress.Progress) Snapshot {
	summary := Summarize(v.questions, v.answers, v.correctCount)
	return Snapshot{
		Mode: ModeResults,
		Results: &ResultsView{
			Summary:           summary,
			OverallAttempts:   p.Total.Attempts,
			OverallCorrect:    p.Total.Correct,
			OverallPercentage: progress.Percentage(p.Total.Correct, p.Total.Attempts),
			BestStreak:        p.BestStreak,
			WeakTopics:        WeakTopics(p, MinTopicAttempts, WeakTopicLimit),
			CanReviewWrong:    len(summary.Wrong) > 0,
		},
	}
}
