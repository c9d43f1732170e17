package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/blitzkarten/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	TopicColumn       string // Column with the topic title
	LessonColumn      string // Column with the lesson file name
	InfinitiveColumn  string // Column with the infinitive
	TranslationColumn string // Column with the translation
	PresentColumn     string // Column with the present tense form
	ImperfectColumn   string // Column with the imperfect tense form
	ParticipleColumn  string // Column with the past participle
	SheetName         string // Name of the sheet with terms
	QuizSheetName     string // Name of the optional sheet with quiz items
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TopicColumn:       "A",
		LessonColumn:      "B",
		InfinitiveColumn:  "C",
		TranslationColumn: "D",
		PresentColumn:     "E",
		ImperfectColumn:   "F",
		ParticipleColumn:  "G",
		SheetName:         "Sheet1",
		QuizSheetName:     "Quiz",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	Topics         []models.Topic
	TotalProcessed int
	Terms          int
	QuizItems      int
	Errors         []string
}

// topicBuilder groups rows into topics in first-appearance order
type topicBuilder struct {
	topics []models.Topic
	index  map[string]int
}

func newTopicBuilder() *topicBuilder {
	return &topicBuilder{index: make(map[string]int)}
}

func (b *topicBuilder) topic(title, lesson string) *models.Topic {
	i, ok := b.index[title]
	if !ok {
		i = len(b.topics)
		b.index[title] = i
		b.topics = append(b.topics, models.Topic{Title: title, LessonFile: lesson})
	}
	t := &b.topics[i]
	if t.LessonFile == "" {
		t.LessonFile = lesson
	}
	return t
}

// Import reads topics and terms from an Excel or CSV file
func Import(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

// importFromExcel imports terms from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	builder := newTopicBuilder()
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 || isBlank(row) {
			continue
		}
		result.TotalProcessed++
		if err := processRow(row, config, builder); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Terms++
	}

	if config.QuizSheetName != "" && hasSheet(f, config.QuizSheetName) {
		quizRows, err := f.GetRows(config.QuizSheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to get quiz rows: %w", err)
		}
		for i, row := range quizRows {
			if i < config.StartRow-1 || isBlank(row) {
				continue
			}
			if err := processQuizRow(row, builder); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s row %d: %v", config.QuizSheetName, i+1, err))
				continue
			}
			result.QuizItems++
		}
	}

	result.Topics = builder.topics
	return result, nil
}

// importFromCSV imports terms from a CSV file laid out like the Excel sheet
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	result := &ImportResult{Errors: make([]string, 0)}
	builder := newTopicBuilder()
	rowNum := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < config.StartRow || isBlank(row) {
			continue
		}
		result.TotalProcessed++
		if err := processRow(row, config, builder); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Terms++
	}

	result.Topics = builder.topics
	return result, nil
}

// processRow turns a single row into a term of its topic
func processRow(row []string, config ImportConfig, builder *topicBuilder) error {
	cell := func(column string) string {
		if column == "" {
			return ""
		}
		if idx := columnToIndex(column); idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	title := cell(config.TopicColumn)
	if title == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	term := models.Term{
		Infinitive:     cell(config.InfinitiveColumn),
		Translation:    cell(config.TranslationColumn),
		PresentTense:   cell(config.PresentColumn),
		ImperfectTense: cell(config.ImperfectColumn),
		PastParticiple: cell(config.ParticipleColumn),
	}
	if term.Infinitive == "" {
		return fmt.Errorf("infinitive cannot be empty")
	}
	if term.Translation == "" {
		return fmt.Errorf("translation cannot be empty")
	}

	topic := builder.topic(title, cell(config.LessonColumn))
	topic.Vocabulary = append(topic.Vocabulary, term)
	return nil
}

// processQuizRow reads "topic | question | answers separated by ';' | correct answer"
func processQuizRow(row []string, builder *topicBuilder) error {
	if len(row) < 4 {
		return fmt.Errorf("expected 4 columns, got %d", len(row))
	}
	title := strings.TrimSpace(row[0])
	if _, ok := builder.index[title]; !ok {
		return fmt.Errorf("unknown topic %q", title)
	}

	var answers []string
	for _, a := range strings.Split(row[2], ";") {
		if a = strings.TrimSpace(a); a != "" {
			answers = append(answers, a)
		}
	}
	item := models.QuizItem{
		Question:      strings.TrimSpace(row[1]),
		Answers:       answers,
		CorrectAnswer: strings.TrimSpace(row[3]),
	}
	if !item.HasCorrectAnswer() {
		return ErrBadQuizItem
	}

	topic := builder.topic(title, "")
	topic.Quiz = append(topic.Quiz, item)
	return nil
}

func hasSheet(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
