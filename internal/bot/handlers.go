package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/blitzkarten/internal/progress"
	"github.com/example/blitzkarten/internal/quiz"
	"github.com/example/blitzkarten/internal/study"
	"github.com/example/blitzkarten/pkg/models"
)

// Constants for callback data
const (
	callbackTopics  = "topics"
	callbackTopic   = "topic"
	callbackToggle  = "toggle"
	callbackLesson  = "lesson"
	callbackStudy   = "study"
	callbackSet     = "set"
	callbackFlip    = "flip"
	callbackNext    = "next"
	callbackPrev    = "prev"
	callbackQuiz    = "quiz"
	callbackAnswer  = "ans"
	callbackSkip    = "skip"
	callbackHistory = "history"
)

const saveWarning = "⚠️ Your progress could not be saved and may be lost on restart."

func (b *Bot) handleMessage(message *tgbotapi.Message) error {
	if !message.IsCommand() {
		// Typed answers count while a question is open
		if s := b.runner.Session(); s != nil && s.State() == quiz.AwaitingAnswer {
			return b.answer(strings.TrimSpace(message.Text))
		}
		return b.sendMessage(b.withMenu(tgbotapi.NewMessage(message.Chat.ID,
			"I don't understand. Use /topics to pick a topic.")))
	}

	switch message.Command() {
	case "start", "help":
		return b.handleStart(message)
	case "topics":
		return b.showTopics(message.Chat.ID, 0)
	case "stop":
		return b.handleStopQuiz(message.Chat.ID)
	default:
		return b.sendMessage(b.withMenu(tgbotapi.NewMessage(message.Chat.ID,
			"Unknown command. Use /topics to show the topic list.")))
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) error {
	text := fmt.Sprintf("Willkommen! Learn %s with BlitzKarten 🇩🇪\n\n", b.plan.LanguageName()) +
		"Every topic has a lesson to read, flashcards to study and a timed quiz.\n\n" +
		"Available commands:\n" +
		"/topics - Show the topic list\n" +
		"/stop - Stop the running quiz\n" +
		"/help - Show this message"
	return b.sendMessage(b.withMenu(tgbotapi.NewMessage(message.Chat.ID, text)))
}

func (b *Bot) handleStopQuiz(chatID int64) error {
	if b.runner.Session() == nil {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "No quiz is running."))
	}
	b.runner.Stop()
	b.clearQuizKeyboard(chatID)
	return b.sendMessage(b.withMenu(tgbotapi.NewMessage(chatID, "Quiz stopped. Your score was not recorded.")))
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	// Always send an answer to the callback query to remove the loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.Warn("failed to answer callback", "error", err)
	}

	chatID := callback.Message.Chat.ID
	msgID := callback.Message.MessageID
	action, args := parseCallback(callback.Data)

	switch action {
	case callbackTopics:
		return b.showTopics(chatID, msgID)
	case callbackTopic:
		i, err := intArg(args, 0)
		if err != nil {
			return err
		}
		return b.showTopic(chatID, msgID, i, "")
	case callbackToggle:
		if len(args) != 2 {
			return fmt.Errorf("invalid toggle callback %q", callback.Data)
		}
		i, err := intArg(args, 1)
		if err != nil {
			return err
		}
		return b.handleToggle(chatID, msgID, models.Field(args[0]), i)
	case callbackLesson:
		i, err := intArg(args, 0)
		if err != nil {
			return err
		}
		return b.handleLesson(chatID, i)
	case callbackStudy:
		i, err := intArg(args, 0)
		if err != nil {
			return err
		}
		return b.handleStudy(chatID, i)
	case callbackSet:
		n, err := intArg(args, 0)
		if err != nil {
			return err
		}
		return b.handleDeckAction(chatID, msgID, func(d *study.Deck) {
			if n >= 0 && n < len(study.Sets) {
				d.SelectSet(study.Sets[n])
			}
		})
	case callbackFlip:
		return b.handleDeckAction(chatID, msgID, func(d *study.Deck) { d.Flip() })
	case callbackNext:
		return b.handleDeckAction(chatID, msgID, func(d *study.Deck) { d.Next() })
	case callbackPrev:
		return b.handleDeckAction(chatID, msgID, func(d *study.Deck) { d.Prev() })
	case callbackQuiz:
		i, err := intArg(args, 0)
		if err != nil {
			return err
		}
		return b.handleQuiz(chatID, i)
	case callbackAnswer:
		n, err := intArg(args, 0)
		if err != nil {
			return err
		}
		if n < 0 || n >= len(b.quizChoices) {
			return nil
		}
		return b.answer(b.quizChoices[n])
	case callbackSkip:
		return b.skip()
	case callbackHistory:
		i, err := intArg(args, 0)
		if err != nil {
			return err
		}
		return b.showHistory(chatID, msgID, i)
	default:
		return b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Unknown action"))
	}
}

// showTopics lists the topics; msgID 0 sends a new message instead of editing
func (b *Bot) showTopics(chatID int64, msgID int) error {
	text := fmt.Sprintf("Learn %s!\n\nPick a topic:", b.plan.LanguageName())

	var buttons [][]MenuButton
	for i, topic := range b.plan.Topics() {
		rec := b.plan.Progress(topic.Title)
		buttons = append(buttons, []MenuButton{{
			Text:         fmt.Sprintf("%s %s", completionMark(rec), topic.Title),
			CallbackData: fmt.Sprintf("%s:%d", callbackTopic, i),
		}})
	}
	return b.show(chatID, msgID, text, createKeyboard(buttons))
}

func (b *Bot) showTopic(chatID int64, msgID int, i int, notice string) error {
	topic, ok := b.topicAt(i)
	if !ok {
		return b.sendMessage(b.withMenu(tgbotapi.NewMessage(chatID, "That topic does not exist.")))
	}
	rec := b.plan.Progress(topic.Title)

	var text strings.Builder
	fmt.Fprintf(&text, "📖 %s\n\n", topic.Title)
	fmt.Fprintf(&text, "%s Lesson read\n", checkbox(rec.LessonRead))
	fmt.Fprintf(&text, "%s Vocabulary studied\n", checkbox(rec.VocabularyStudied))
	fmt.Fprintf(&text, "%s Quiz passed\n", checkbox(rec.QuizPassed))
	fmt.Fprintf(&text, "🏆 High score: %d", rec.QuizHighScore)
	if notice != "" {
		fmt.Fprintf(&text, "\n\n%s", notice)
	}

	buttons := [][]MenuButton{
		{
			{Text: checkbox(rec.LessonRead) + " Read", CallbackData: toggleData(models.FieldLessonRead, i)},
			{Text: checkbox(rec.VocabularyStudied) + " Studied", CallbackData: toggleData(models.FieldVocabularyStudied, i)},
			{Text: checkbox(rec.QuizPassed) + " Passed", CallbackData: toggleData(models.FieldQuizPassed, i)},
		},
		{
			{Text: "Lesson", CallbackData: fmt.Sprintf("%s:%d", callbackLesson, i)},
			{Text: "Study", CallbackData: fmt.Sprintf("%s:%d", callbackStudy, i)},
			{Text: "Quiz", CallbackData: fmt.Sprintf("%s:%d", callbackQuiz, i)},
		},
		{
			{Text: "📈 Quiz history", CallbackData: fmt.Sprintf("%s:%d", callbackHistory, i)},
			{Text: "« Topics", CallbackData: callbackTopics},
		},
	}
	return b.show(chatID, msgID, text.String(), createKeyboard(buttons))
}

func (b *Bot) handleToggle(chatID int64, msgID int, field models.Field, i int) error {
	topic, ok := b.topicAt(i)
	if !ok {
		return b.showTopic(chatID, msgID, i, "")
	}

	var err error
	switch field {
	case models.FieldLessonRead:
		_, err = b.plan.ToggleLessonRead(topic.Title)
	case models.FieldVocabularyStudied:
		_, err = b.plan.ToggleVocabularyStudied(topic.Title)
	case models.FieldQuizPassed:
		_, err = b.plan.ToggleQuizTaken(topic.Title)
	default:
		return fmt.Errorf("unknown progress field %q", field)
	}

	notice := ""
	if err != nil {
		if !errors.Is(err, progress.ErrWriteFailed) {
			return err
		}
		notice = saveWarning
	}
	return b.showTopic(chatID, msgID, i, notice)
}

func (b *Bot) handleLesson(chatID int64, i int) error {
	topic, ok := b.topicAt(i)
	if !ok {
		return b.sendMessage(b.withMenu(tgbotapi.NewMessage(chatID, "That topic does not exist.")))
	}

	page := b.lessons.Render(topic.LessonFile)
	if !page.Found {
		b.log.Warn("lesson not found", "title", topic.Title, "file", page.FileName)
		return b.sendMessage(b.withTopic(tgbotapi.NewMessage(chatID, page.HTML), i))
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: page.FileName, Bytes: []byte(page.HTML)})
	doc.Caption = fmt.Sprintf("📖 Lesson: %s", topic.Title)
	doc.ReplyMarkup = createKeyboard(topicButtons(i))
	return b.sendMessage(doc)
}

func (b *Bot) handleStudy(chatID int64, i int) error {
	topic, ok := b.topicAt(i)
	if !ok {
		return b.sendMessage(b.withMenu(tgbotapi.NewMessage(chatID, "That topic does not exist.")))
	}
	deck, err := study.NewDeck(topic, study.Translation)
	if err != nil {
		return b.sendMessage(b.withTopic(tgbotapi.NewMessage(chatID, "This topic has no vocabulary to study."), i))
	}
	b.deck = deck
	b.deckTopic = i

	text, markup := b.cardView()
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	return b.sendMessage(msg)
}

func (b *Bot) handleDeckAction(chatID int64, msgID int, action func(d *study.Deck)) error {
	if b.deck == nil {
		return b.sendMessage(b.withMenu(tgbotapi.NewMessage(chatID, "No flashcards open. Pick a topic to study.")))
	}
	action(b.deck)
	text, markup := b.cardView()
	return b.show(chatID, msgID, text, markup)
}

func (b *Bot) cardView() (string, tgbotapi.InlineKeyboardMarkup) {
	card := b.deck.Current()
	side := "front"
	if card.Flipped {
		side = "back"
	}
	text := fmt.Sprintf("🃏 %s · %s\nCard %d/%d (%s)\n\n%s",
		b.deck.Topic().Title, b.deck.Set(), card.Index+1, card.Total, side, card.Text())

	var sets []MenuButton
	for n, s := range study.Sets {
		label := s.String()
		if s == b.deck.Set() {
			label = "• " + label
		}
		sets = append(sets, MenuButton{Text: label, CallbackData: fmt.Sprintf("%s:%d", callbackSet, n)})
	}
	buttons := [][]MenuButton{
		sets[:2],
		sets[2:],
		{
			{Text: "◀", CallbackData: callbackPrev},
			{Text: "Flip", CallbackData: callbackFlip},
			{Text: "▶", CallbackData: callbackNext},
		},
		{{Text: "« Back", CallbackData: fmt.Sprintf("%s:%d", callbackTopic, b.deckTopic)}},
	}
	return text, createKeyboard(buttons)
}

// show edits msgID in place, or sends a new message when msgID is 0
func (b *Bot) show(chatID int64, msgID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	if msgID == 0 {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = markup
		return b.sendMessage(msg)
	}
	return b.sendMessage(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, markup))
}

func (b *Bot) withMenu(msg tgbotapi.MessageConfig) tgbotapi.MessageConfig {
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	return msg
}

func (b *Bot) withTopic(msg tgbotapi.MessageConfig, i int) tgbotapi.MessageConfig {
	msg.ReplyMarkup = createKeyboard(topicButtons(i))
	return msg
}

func topicButtons(i int) [][]MenuButton {
	return [][]MenuButton{{
		{Text: "« Topic", CallbackData: fmt.Sprintf("%s:%d", callbackTopic, i)},
		{Text: "📚 Topics", CallbackData: callbackTopics},
	}}
}

func toggleData(field models.Field, i int) string {
	return fmt.Sprintf("%s:%s:%d", callbackToggle, field, i)
}

func checkbox(v bool) string {
	if v {
		return "✅"
	}
	return "⬜"
}

func completionMark(rec models.ProgressRecord) string {
	done := 0
	for _, f := range models.Flags {
		if rec.Flag(f) {
			done++
		}
	}
	switch done {
	case len(models.Flags):
		return "✅"
	case 0:
		return "⬜"
	}
	return "🔸"
}

// parseCallback splits "action:arg1:arg2"
func parseCallback(data string) (string, []string) {
	parts := strings.Split(data, ":")
	return parts[0], parts[1:]
}

func intArg(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing callback argument %d", i)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid callback argument %q: %w", args[i], err)
	}
	return n, nil
}
