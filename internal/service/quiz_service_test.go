package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/models"
	"github.com/noah-isme/literacy-go-api/internal/repository"
)

func newQuizFixture(t *testing.T) (*gorm.DB, QuizService, dto.PassageResponse) {
	t.Helper()
	db := setupServiceDB(t)
	passages := repository.NewPassageRepository(db)
	passage, err := NewPassageService(passages, nil, time.Minute, testValidator(), testLogger()).
		Create(context.Background(), admin(1), passageRequest("Cats"))
	require.NoError(t, err)
	return db, NewQuizService(repository.NewQuizRepository(db), passages, testValidator(), testLogger()), passage
}

func essayInput(text string) dto.QuestionInput {
	return dto.QuestionInput{QuestionText: text, Tags: string(models.TagInferential), Type: string(models.QuestionTypeEssay)}
}

func choiceInput(text string, answer string, options ...string) dto.QuestionInput {
	return dto.QuestionInput{
		QuestionText:  text,
		Tags:          string(models.TagLiteral),
		Type:          string(models.QuestionTypeMultipleChoice),
		Options:       options,
		CorrectAnswer: &answer,
	}
}

func TestQuizServiceTotalNumberMatchesQuestions(t *testing.T) {
	db, svc, passage := newQuizFixture(t)
	ctx := context.Background()

	for n := 0; n <= 3; n++ {
		questions := make([]dto.QuestionInput, 0, n)
		for i := 0; i < n; i++ {
			questions = append(questions, essayInput(fmt.Sprintf("question %d", i)))
		}

		quiz, err := svc.Create(ctx, admin(1), dto.QuizCreateRequest{PassageID: passage.ID, TotalScore: 10, Questions: questions})
		require.NoError(t, err)
		require.Equal(t, n, quiz.TotalNumber)
		require.Len(t, quiz.Questions, n)
		for i, question := range quiz.Questions {
			require.Equal(t, i, question.Position)
		}

		loaded, err := svc.Get(ctx, teacher(2), quiz.ID)
		require.NoError(t, err)
		require.Equal(t, n, loaded.TotalNumber)
	}

	require.Equal(t, int64(4), countRows(t, db, &models.Quiz{}))
	require.Equal(t, int64(6), countRows(t, db, &models.Question{}))
}

func TestQuizServiceMultipleChoiceRules(t *testing.T) {
	db, svc, passage := newQuizFixture(t)
	ctx := context.Background()

	noAnswer := choiceInput("Who?", "")
	noAnswer.Options = []string{"Tom", "Jerry"}
	withEssayOptions := essayInput("Why?")
	withEssayOptions.Options = []string{"Because"}
	essayAnswer := "Because"
	withEssayAnswer := essayInput("Why?")
	withEssayAnswer.CorrectAnswer = &essayAnswer
	presetID := uint(7)
	withID := essayInput("Why?")
	withID.ID = &presetID

	cases := map[string]dto.QuestionInput{
		"single option":        choiceInput("Who?", "Tom", "Tom"),
		"answer not an option": choiceInput("Who?", "Spike", "Tom", "Jerry"),
		"missing answer":       noAnswer,
		"essay with options":   withEssayOptions,
		"essay with answer":    withEssayAnswer,
		"id on create":         withID,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, admin(1), dto.QuizCreateRequest{PassageID: passage.ID, Questions: []dto.QuestionInput{input}})
			requireCode(t, err, CodeValidation)
		})
	}
	require.Zero(t, countRows(t, db, &models.Quiz{}))

	quiz, err := svc.Create(ctx, admin(1), dto.QuizCreateRequest{PassageID: passage.ID, Questions: []dto.QuestionInput{
		choiceInput("Who chased?", " Tom ", "Tom", "Jerry", "Spike"),
	}})
	require.NoError(t, err)
	require.Equal(t, []string{"Tom", "Jerry", "Spike"}, quiz.Questions[0].Options)
	require.NotNil(t, quiz.Questions[0].CorrectAnswer)
	require.Equal(t, "Tom", *quiz.Questions[0].CorrectAnswer)
}

func TestQuizServiceGuardsAndMissingPassage(t *testing.T) {
	db, svc, passage := newQuizFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, teacher(2), dto.QuizCreateRequest{PassageID: passage.ID})
	requireCode(t, err, CodeForbidden)

	_, err = svc.Create(ctx, admin(1), dto.QuizCreateRequest{PassageID: passage.ID + 50})
	requireCode(t, err, CodeNotFound)

	require.Zero(t, countRows(t, db, &models.Quiz{}))
}

func TestQuizServiceUpdateReplacesQuestionSet(t *testing.T) {
	_, svc, passage := newQuizFixture(t)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, admin(1), dto.QuizCreateRequest{PassageID: passage.ID, Questions: []dto.QuestionInput{
		essayInput("first"), essayInput("second"),
	}})
	require.NoError(t, err)

	score := 20
	scoreOnly, err := svc.Update(ctx, admin(1), quiz.ID, dto.QuizUpdateRequest{TotalScore: &score})
	require.NoError(t, err)
	require.Equal(t, 20, scoreOnly.TotalScore)
	require.Equal(t, 2, scoreOnly.TotalNumber)

	kept := essayInput("second, edited")
	kept.ID = &quiz.Questions[1].ID
	replacement := []dto.QuestionInput{kept, essayInput("third"), essayInput("fourth")}
	replaced, err := svc.Update(ctx, admin(1), quiz.ID, dto.QuizUpdateRequest{Questions: &replacement})
	require.NoError(t, err)
	require.Equal(t, 3, replaced.TotalNumber)
	require.Len(t, replaced.Questions, 3)
	require.Equal(t, quiz.Questions[1].ID, replaced.Questions[0].ID)
	require.Equal(t, "second, edited", replaced.Questions[0].QuestionText)

	other, err := svc.Create(ctx, admin(1), dto.QuizCreateRequest{PassageID: passage.ID, Questions: []dto.QuestionInput{essayInput("other")}})
	require.NoError(t, err)
	foreign := essayInput("foreign")
	foreign.ID = &other.Questions[0].ID
	invalidSet := []dto.QuestionInput{foreign}
	_, err = svc.Update(ctx, admin(1), quiz.ID, dto.QuizUpdateRequest{Questions: &invalidSet})
	requireCode(t, err, CodeValidation)

	_, err = svc.Update(ctx, admin(1), quiz.ID+100, dto.QuizUpdateRequest{TotalScore: &score})
	requireCode(t, err, CodeNotFound)
}

func TestQuizServiceUpdateRejectsRepeatedQuestionID(t *testing.T) {
	db, svc, passage := newQuizFixture(t)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, admin(1), dto.QuizCreateRequest{PassageID: passage.ID, Questions: []dto.QuestionInput{essayInput("only")}})
	require.NoError(t, err)

	first := essayInput("x")
	first.ID = &quiz.Questions[0].ID
	second := essayInput("y")
	second.ID = &quiz.Questions[0].ID
	repeated := []dto.QuestionInput{first, second}
	_, err = svc.Update(ctx, admin(1), quiz.ID, dto.QuizUpdateRequest{Questions: &repeated})
	requireCode(t, err, CodeValidation)
	require.Equal(t, "duplicate question", AsError(err).Fields["questions[1].id"])

	loaded, err := svc.Get(ctx, teacher(2), quiz.ID)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.TotalNumber)
	require.Len(t, loaded.Questions, 1)
	require.Equal(t, "only", loaded.Questions[0].QuestionText)
	require.Equal(t, int64(1), countRows(t, db, &models.Question{}))
}

func TestQuizServiceKeepsQuestionTextVerbatim(t *testing.T) {
	_, svc, passage := newQuizFixture(t)
	ctx := context.Background()

	text := "Why did Tom say <hello> & wave?\n"
	quiz, err := svc.Create(ctx, admin(1), dto.QuizCreateRequest{PassageID: passage.ID, Questions: []dto.QuestionInput{essayInput(text)}})
	require.NoError(t, err)
	require.Equal(t, text, quiz.Questions[0].QuestionText)

	_, err = svc.Create(ctx, admin(1), dto.QuizCreateRequest{PassageID: passage.ID, Questions: []dto.QuestionInput{essayInput("  ")}})
	requireCode(t, err, CodeValidation)
}

func TestQuizServiceDeleteRemovesQuestions(t *testing.T) {
	db, svc, passage := newQuizFixture(t)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, admin(1), dto.QuizCreateRequest{PassageID: passage.ID, Questions: []dto.QuestionInput{
		essayInput("a"), choiceInput("b", "x", "x", "y"),
	}})
	require.NoError(t, err)

	requireCode(t, svc.Delete(ctx, teacher(2), quiz.ID), CodeForbidden)
	require.NoError(t, svc.Delete(ctx, admin(1), quiz.ID))

	_, err = svc.Get(ctx, teacher(2), quiz.ID)
	requireCode(t, err, CodeNotFound)
	for _, question := range quiz.Questions {
		var found models.Question
		require.ErrorIs(t, db.First(&found, question.ID).Error, gorm.ErrRecordNotFound)
	}

	requireCode(t, svc.Delete(ctx, admin(1), quiz.ID), CodeNotFound)
}
