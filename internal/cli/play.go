package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"ham-quiz-trainer/internal/app"
	"ham-quiz-trainer/internal/config"
	"ham-quiz-trainer/internal/domain"
	filebank "ham-quiz-trainer/internal/infra/file"
	"ham-quiz-trainer/internal/infra/memory"
	redisinfra "ham-quiz-trainer/internal/infra/redis"
	"ham-quiz-trainer/internal/progress"
)

// NewPlayCmd runs a quiz session in the terminal against the same core the
// server exposes over WebSocket.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Run a quiz session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath)
		},
	}
}

func runPlay(ctx context.Context, configPath string) error {
	cfg, _ := config.Load(configPath) // play works with defaults when no config exists

	var loader redisinfra.BankLoader = memory.NewStaticBankLoader(sampleBank())
	if cfg.Bank.Dir != "" {
		loader = filebank.NewBankLoader(cfg.Bank.Dir)
	}
	bankRepo := memory.NewBankRepository(loader, config.TTLDuration(cfg.Bank.TTL, 10*time.Minute))

	// Progress survives across plays when Redis is configured; otherwise it
	// lives for this run only.
	var blob progress.Blob = memory.NewBlob()
	if cfg.Redis.Addr != "" {
		blob = redisinfra.NewBlob(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), 0)
	}

	service := app.NewTrainerService(memory.NewSessionStore(), bankRepo, progress.NewStore(blob), cfg.Bank.SessionSize)

	userID := os.Getenv("USER")
	if userID == "" {
		userID = "local"
	}

	snapshot, err := service.Connect(ctx, userID)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		renderSnapshot(snapshot)

		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, "q") {
			return nil
		}

		next, err := handleInput(ctx, service, userID, snapshot, input)
		if err != nil {
			fmt.Printf("! %v\n\n", err)
			continue
		}
		snapshot = next
	}
}

func handleInput(ctx context.Context, service *app.TrainerService, userID string, snapshot app.Snapshot, input string) (app.Snapshot, error) {
	switch snapshot.Mode {
	case app.ModeIntro:
		if input == "" || strings.EqualFold(input, "s") {
			return service.Start(ctx, userID)
		}
		if strings.EqualFold(input, "a") {
			return service.SelectAll(ctx, userID)
		}
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(snapshot.Intro.Sections) {
			return service.ToggleSection(ctx, userID, snapshot.Intro.Sections[n-1].ID)
		}
		return app.Snapshot{}, errors.New("въведи номер на раздел, 'a' за всички или Enter за старт")
	case app.ModeQuiz:
		if snapshot.Question.Feedback != nil {
			return service.Next(ctx, userID)
		}
		letter, ok := parseLetter(input)
		if !ok {
			return app.Snapshot{}, errors.New("отговори с А, Б, В или Г")
		}
		return service.Answer(ctx, userID, letter)
	default:
		if strings.EqualFold(input, "r") {
			return service.ReviewWrong(ctx, userID)
		}
		return service.Reset(ctx, userID)
	}
}

// parseLetter accepts the Cyrillic letters plus Latin/numeric fallbacks for
// keyboards without a Bulgarian layout.
func parseLetter(input string) (domain.Letter, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "а", "a", "1":
		return domain.LetterA, true
	case "б", "b", "2":
		return domain.LetterB, true
	case "в", "v", "3":
		return domain.LetterV, true
	case "г", "g", "4":
		return domain.LetterG, true
	}
	return "", false
}

func renderSnapshot(snapshot app.Snapshot) {
	switch snapshot.Mode {
	case app.ModeIntro:
		renderIntro(snapshot.Intro)
	case app.ModeQuiz:
		renderQuestion(snapshot.Question)
	case app.ModeResults:
		renderResults(snapshot.Results)
	}
}

func renderIntro(view *app.IntroView) {
	fmt.Println("Раздели:")
	for i, sec := range view.Sections {
		mark := "☐"
		if sec.Selected {
			mark = "☑"
		}
		fmt.Printf("  %d. %s %s (%d)\n", i+1, mark, sec.Label, sec.Count)
	}
	fmt.Printf("Избрани въпроси: %d, сесия: %d\n", view.SelectedCount, view.SessionSize)
	fmt.Print("Номер за превключване, 'a' за всички, Enter за старт, 'q' за изход: ")
}

func renderQuestion(view *app.QuestionView) {
	q := view.Question
	fmt.Printf("\nВъпрос %d/%d (серия: %d)\n%s\n", view.Index+1, view.Total, view.Streak, q.Text)
	for _, letter := range domain.Letters {
		fmt.Printf("  %s. %s\n", letter, q.Choices[letter])
	}
	if view.Feedback == nil {
		fmt.Print("Отговор: ")
		return
	}
	if view.Feedback.Correct {
		fmt.Println("Вярно ✅")
	} else {
		fmt.Printf("Грешно ❌ Правилен отговор: %s\n", view.Feedback.Answer)
	}
	if view.Feedback.Explanation != "" {
		fmt.Println(view.Feedback.Explanation)
	}
	fmt.Print("Enter за следващ въпрос: ")
}

func renderResults(view *app.ResultsView) {
	s := view.Summary
	fmt.Printf("\nРезултат: %d/%d (%d%%), грешни: %d\n", s.Correct, s.Total, s.Percentage, len(s.Wrong))
	fmt.Printf("Общо (всички сесии): %d/%d (%d%%), най-дълга серия: %d\n",
		view.OverallCorrect, view.OverallAttempts, view.OverallPercentage, view.BestStreak)
	if len(view.WeakTopics) > 0 {
		fmt.Println("Слаби теми:")
		for _, topic := range view.WeakTopics {
			fmt.Printf("  %s: %d/%d (%d%%)\n", topic.Topic, topic.Correct, topic.Attempts, topic.Percentage)
		}
	}
	for _, wrong := range s.Wrong {
		fmt.Printf("  (%d) %s — ти: %s, вярно: %s\n", wrong.Question.Num, wrong.Question.Text, wrong.Selected, wrong.Question.Answer)
	}
	if view.CanReviewWrong {
		fmt.Print("'r' за преговор на грешните, Enter за нова сесия, 'q' за изход: ")
	} else {
		fmt.Print("Enter за нова сесия, 'q' за изход: ")
	}
}
