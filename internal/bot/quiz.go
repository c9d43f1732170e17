package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/blitzkarten/internal/quiz"
	"github.com/example/blitzkarten/pkg/models"
)

var _ quiz.Listener = (*Bot)(nil)

func (b *Bot) handleQuiz(chatID int64, i int) error {
	topic, ok := b.topicAt(i)
	if !ok {
		return b.sendMessage(b.withMenu(tgbotapi.NewMessage(chatID, "That topic does not exist.")))
	}
	b.clearQuizKeyboard(chatID)
	b.quizTopic = i

	highScore := b.plan.Progress(topic.Title).QuizHighScore
	if err := b.runner.Start(topic, highScore); err != nil {
		if errors.Is(err, quiz.ErrEmptyVocabulary) {
			return b.sendMessage(b.withTopic(tgbotapi.NewMessage(chatID, "This topic has no vocabulary to quiz."), i))
		}
		return err
	}
	return nil
}

func (b *Bot) answer(choice string) error {
	err := b.runner.Answer(choice)
	if errors.Is(err, quiz.ErrNotAwaitingAnswer) {
		// Late taps on an old question
		return nil
	}
	return err
}

func (b *Bot) skip() error {
	err := b.runner.Skip()
	if errors.Is(err, quiz.ErrNotAwaitingAnswer) {
		return nil
	}
	return err
}

// OnQuestion shows a new question with one button per choice
func (b *Bot) OnQuestion(topic models.Topic, q quiz.Question) {
	chatID := b.opts.OwnerChatID
	b.clearQuizKeyboard(chatID)

	text := fmt.Sprintf("❓ %s · question %d/%d\n\nWhat does \"%s\" mean?\n\n⏱ %s to answer",
		topic.Title, q.Index+1, q.Total, q.Term.Infinitive, b.opts.TimeUnit*quiz.QuestionTime)

	var rows [][]MenuButton
	for n, choice := range q.Choices {
		rows = append(rows, []MenuButton{{Text: choice, CallbackData: fmt.Sprintf("%s:%d", callbackAnswer, n)}})
	}
	rows = append(rows, []MenuButton{{Text: "Skip ⏭", CallbackData: callbackSkip}})

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(rows)
	sent, err := b.send(msg)
	if err != nil {
		return
	}
	b.quizChoices = q.Choices
	b.quizMsgID = sent.MessageID
	b.quizMsgValid = true
}

// OnFeedback reports the outcome of an answer or a timeout
func (b *Bot) OnFeedback(_ models.Topic, f quiz.Feedback) {
	chatID := b.opts.OwnerChatID
	b.clearQuizKeyboard(chatID)

	var text string
	switch {
	case f.TimedOut:
		text = fmt.Sprintf("⌛ Time is up! The answer was \"%s\".", f.Expected)
	case f.Correct:
		text = fmt.Sprintf("✅ Correct! +%d points", f.Points)
	default:
		text = fmt.Sprintf("❌ Wrong, \"%s\" is \"%s\".", f.Answer, f.Expected)
		if f.Answer == "" {
			text = fmt.Sprintf("❌ Wrong, the answer is \"%s\".", f.Expected)
		}
	}
	text += fmt.Sprintf("\nScore: %d", f.Score)
	_ = b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

// OnComplete shows the final score
func (b *Bot) OnComplete(topic models.Topic, r quiz.Result) {
	chatID := b.opts.OwnerChatID
	b.clearQuizKeyboard(chatID)
	b.saveResult(topic, r)

	var text strings.Builder
	fmt.Fprintf(&text, "🏁 Quiz on %s complete!\n\nCorrect: %d/%d\nScore: %d\nHigh score: %d",
		topic.Title, r.Correct, r.Questions, r.Score, r.HighScore)
	if r.NewHighScore {
		text.WriteString("\n\n🎉 New high score!")
	}

	buttons := [][]MenuButton{
		{{Text: "🔁 Try again", CallbackData: fmt.Sprintf("%s:%d", callbackQuiz, b.quizTopic)}},
		topicButtons(b.quizTopic)[0],
	}
	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = createKeyboard(buttons)
	_ = b.sendMessage(msg)
}

// clearQuizKeyboard removes the answer buttons from the last question
func (b *Bot) clearQuizKeyboard(chatID int64) {
	if !b.quizMsgValid {
		return
	}
	b.quizMsgValid = false
	b.quizChoices = nil
	empty := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	_ = b.sendMessage(tgbotapi.NewEditMessageReplyMarkup(chatID, b.quizMsgID, empty))
}

func (b *Bot) saveResult(topic models.Topic, r quiz.Result) {
	if b.opts.History == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	result := &models.QuizResult{
		TopicTitle: topic.Title,
		Score:      r.Score,
		Correct:    r.Correct,
		Questions:  r.Questions,
	}
	if err := b.opts.History.Create(ctx, result); err != nil {
		b.log.Warn("failed to save quiz result", "title", topic.Title, "error", err)
	}
}

func (b *Bot) showHistory(chatID int64, msgID int, i int) error {
	topic, ok := b.topicAt(i)
	if !ok {
		return b.sendMessage(b.withMenu(tgbotapi.NewMessage(chatID, "That topic does not exist.")))
	}
	back := createKeyboard(topicButtons(i))
	if b.opts.History == nil {
		return b.show(chatID, msgID, "Quiz history is not kept without a database.", back)
	}

	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	stats, err := b.opts.History.Stats(ctx, topic.Title)
	if err != nil {
		return err
	}
	recent, err := b.opts.History.ListByTopic(ctx, topic.Title, 5)
	if err != nil {
		return err
	}

	var text strings.Builder
	fmt.Fprintf(&text, "📈 %s\n\n", topic.Title)
	if stats.Attempts == 0 {
		text.WriteString("No quizzes taken yet.")
		return b.show(chatID, msgID, text.String(), back)
	}
	fmt.Fprintf(&text, "Attempts: %d\nBest: %d\nAverage: %.1f\n\nRecent:\n", stats.Attempts, stats.Best, stats.Average)
	for _, r := range recent {
		fmt.Fprintf(&text, "• %s  %d pts (%d/%d)\n", r.TakenAt.Format("2006-01-02 15:04"), r.Score, r.Correct, r.Questions)
	}
	return b.show(chatID, msgID, strings.TrimRight(text.String(), "\n"), back)
}
