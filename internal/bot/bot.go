// Package bot is the Telegram front end. It only talks to its owner's chat
// and runs every update on the application's event loop.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/blitzkarten/internal/lesson"
	"github.com/example/blitzkarten/internal/lessonplan"
	"github.com/example/blitzkarten/internal/logger"
	"github.com/example/blitzkarten/internal/quiz"
	"github.com/example/blitzkarten/internal/scheduler"
	"github.com/example/blitzkarten/internal/study"
	"github.com/example/blitzkarten/pkg/models"
)

// telegramAPI is the part of *tgbotapi.BotAPI the bot uses
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// QuizHistory keeps finished quiz attempts
type QuizHistory interface {
	Create(ctx context.Context, result *models.QuizResult) error
	ListByTopic(ctx context.Context, title string, limit int) ([]models.QuizResult, error)
	Stats(ctx context.Context, title string) (models.QuizStats, error)
}

// Options configures a Bot
type Options struct {
	// Chat the bot belongs to; everyone else is turned away
	OwnerChatID int64
	// Length of one quiz time unit
	TimeUnit time.Duration
	// Optional; without it quiz attempts are not kept
	History QuizHistory
}

// historyTimeout bounds one history query made from the event loop
const historyTimeout = 5 * time.Second

// Bot represents the Telegram bot application
type Bot struct {
	api     telegramAPI
	opts    Options
	plan    lessonplan.LessonPlan
	lessons *lesson.Renderer
	loop    *scheduler.Loop
	runner  *quiz.Runner
	log     *logger.Logger

	// Flashcards being studied, nil when none
	deck      *study.Deck
	deckTopic int

	// The quiz question on screen and the topic it belongs to
	quizTopic    int
	quizChoices  []string
	quizMsgID    int
	quizMsgValid bool
}

// New creates a bot. Quiz timers deliver their callbacks through loop.
func New(api telegramAPI, opts Options, plan lessonplan.LessonPlan, lessons *lesson.Renderer,
	loop *scheduler.Loop, timers quiz.Timers, log *logger.Logger) *Bot {
	b := &Bot{
		api:     api,
		opts:    opts,
		plan:    plan,
		lessons: lessons,
		loop:    loop,
		log:     log.With("component", "bot"),
	}
	b.runner = quiz.NewRunner(timers, opts.TimeUnit, b, plan, log)
	return b
}

// Start receives updates until ctx is done, posting each one to the loop
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("bot started", "owner_chat_id", b.opts.OwnerChatID, "language", b.plan.LanguageName())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if !b.loop.Post(func() { b.handleUpdate(update) }) {
				return nil
			}
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	b.loop.Post(b.runner.Stop)
	b.log.Info("bot stopped")
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil:
		if !b.isOwner(update.Message.Chat) {
			b.rejectStranger(update.Message.Chat)
			return
		}
		err = b.handleMessage(update.Message)
	case update.CallbackQuery != nil:
		if update.CallbackQuery.Message == nil {
			return
		}
		if !b.isOwner(update.CallbackQuery.Message.Chat) {
			b.rejectStranger(update.CallbackQuery.Message.Chat)
			return
		}
		err = b.handleCallback(update.CallbackQuery)
	}
	if err != nil {
		b.log.Error("failed to handle update", "update_id", update.UpdateID, "error", err)
	}
}

func (b *Bot) isOwner(chat *tgbotapi.Chat) bool {
	return chat != nil && chat.ID == b.opts.OwnerChatID
}

func (b *Bot) rejectStranger(chat *tgbotapi.Chat) {
	if chat == nil {
		return
	}
	b.log.Warn("ignoring message from another chat", "chat_id", chat.ID)
	_ = b.sendMessage(tgbotapi.NewMessage(chat.ID, "Sorry, this is a private study bot."))
}

// SendReminder nudges the owner about topics that are not finished yet
func (b *Bot) SendReminder() {
	var open []string
	for _, topic := range b.plan.Topics() {
		rec := b.plan.Progress(topic.Title)
		if !rec.LessonRead || !rec.VocabularyStudied || !rec.QuizPassed {
			open = append(open, topic.Title)
		}
	}
	if len(open) == 0 {
		return
	}

	text := fmt.Sprintf("⏰ Time to practise! %d topic(s) are still open:\n• %s",
		len(open), strings.Join(open, "\n• "))
	msg := tgbotapi.NewMessage(b.opts.OwnerChatID, text)
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	if err := b.sendMessage(msg); err == nil {
		b.log.Info("sent study reminder", "open_topics", len(open))
	}
}

// MainMenuButtons returns the buttons shown under most messages
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📚 Topics", CallbackData: callbackTopics}},
	}
}

func (b *Bot) sendMessage(c tgbotapi.Chattable) error {
	if _, err := b.api.Send(c); err != nil {
		b.log.Warn("failed to send message", "error", err)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// send is sendMessage for callers that need the sent message
func (b *Bot) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := b.api.Send(c)
	if err != nil {
		b.log.Warn("failed to send message", "error", err)
		return msg, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}

// topicAt resolves a topic index from callback data
func (b *Bot) topicAt(i int) (models.Topic, bool) {
	topics := b.plan.Topics()
	if i < 0 || i >= len(topics) {
		return models.Topic{}, false
	}
	return topics[i], true
}
