package service

import (
	"testing"
	"time"

	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/util"
	"mathwave_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newQuizService(t *testing.T) (*QuizService, *gorm.DB) {
	db := newTestDB(t)
	return NewQuizService(repository.NewQuizRepository(db), repository.NewUserRepository(db)), db
}

func createStudent(t *testing.T, db *gorm.DB, email string, grade *int) *util.Claims {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "x", Role: model.Student, IsVerified: true}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&model.StudentProfile{
		UserID:     user.ID,
		FullName:   "Test Student",
		GradeLevel: grade,
	}).Error)
	return &util.Claims{UserID: user.ID, Role: model.Student, Email: email}
}

func intPtr(v int) *int { return &v }

func createQuiz(t *testing.T, s *QuizService, status model.QuizStatus) *model.Quiz {
	t.Helper()
	quiz, err := s.CreateQuiz(CreateQuizReq{
		Title:           "周赛",
		Description:     "五题限时赛",
		AvailableFrom:   time.Now(),
		AvailableUntil:  time.Now().Add(24 * time.Hour),
		DifficultyLevel: "medium",
		Date:            time.Now(),
		PDFURL:          "https://cdn.example.com/quiz.pdf",
	})
	require.NoError(t, err)
	if status == model.QuizActive {
		quiz, err = s.UpdateStatus(quiz.ID, string(model.QuizActive))
		require.NoError(t, err)
	}
	return quiz
}

func setAnswerKey(t *testing.T, s *QuizService, quizID uint) {
	t.Helper()
	entries := []AnswerKeyEntryReq{
		{QuestionNumber: 1, CorrectAnswer: "42"},
		{QuestionNumber: 2, CorrectAnswer: "Paris"},
		{QuestionNumber: 3, CorrectAnswer: "3.14"},
		{QuestionNumber: 4, CorrectAnswer: "x+y"},
		{QuestionNumber: 5, CorrectAnswer: "7"},
	}
	require.NoError(t, s.SetAnswerKey(quizID, entries))
}

func TestCreateQuizValidatesWindow(t *testing.T) {
	s, _ := newQuizService(t)

	_, err := s.CreateQuiz(CreateQuizReq{
		Title:           "t",
		Description:     "d",
		AvailableFrom:   time.Now().Add(time.Hour),
		AvailableUntil:  time.Now(),
		DifficultyLevel: "easy",
		Date:            time.Now(),
		PDFURL:          "u",
	})
	assert.ErrorIs(t, err, util.ErrQuizWindowInvalid)
}

func TestNewQuizDefaultsToInactive(t *testing.T) {
	s, _ := newQuizService(t)

	quiz := createQuiz(t, s, model.QuizInactive)
	assert.Equal(t, model.QuizInactive, quiz.Status)

	_, err := s.GetActiveQuiz()
	assert.ErrorIs(t, err, util.ErrNoActiveQuiz)
}

func TestActivationDemotesPreviousActive(t *testing.T) {
	s, db := newQuizService(t)

	first := createQuiz(t, s, model.QuizActive)
	second := createQuiz(t, s, model.QuizActive)

	var count int64
	require.NoError(t, db.Model(&model.Quiz{}).Where("status = ?", model.QuizActive).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	active, err := s.GetActiveQuiz()
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	var demoted model.Quiz
	require.NoError(t, db.First(&demoted, first.ID).Error)
	assert.Equal(t, model.QuizInactive, demoted.Status)
}

func TestUpdateStatusRejectsUnknownValues(t *testing.T) {
	s, _ := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizInactive)

	_, err := s.UpdateStatus(quiz.ID, "archived")
	assert.ErrorIs(t, err, util.ErrQuizStatusInvalid)

	_, err = s.UpdateStatus(9999, string(model.QuizActive))
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestSetAnswerKeyValidation(t *testing.T) {
	s, _ := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizInactive)

	err := s.SetAnswerKey(quiz.ID, []AnswerKeyEntryReq{{QuestionNumber: 1, CorrectAnswer: "a"}})
	assert.ErrorIs(t, err, util.ErrAnswerKeyCount)

	// 题号重复
	err = s.SetAnswerKey(quiz.ID, []AnswerKeyEntryReq{
		{QuestionNumber: 1, CorrectAnswer: "a"},
		{QuestionNumber: 1, CorrectAnswer: "b"},
		{QuestionNumber: 3, CorrectAnswer: "c"},
		{QuestionNumber: 4, CorrectAnswer: "d"},
		{QuestionNumber: 5, CorrectAnswer: "e"},
	})
	assert.ErrorIs(t, err, util.ErrAnswerKeyFormat)

	// 空白答案
	err = s.SetAnswerKey(quiz.ID, []AnswerKeyEntryReq{
		{QuestionNumber: 1, CorrectAnswer: "   "},
		{QuestionNumber: 2, CorrectAnswer: "b"},
		{QuestionNumber: 3, CorrectAnswer: "c"},
		{QuestionNumber: 4, CorrectAnswer: "d"},
		{QuestionNumber: 5, CorrectAnswer: "e"},
	})
	assert.ErrorIs(t, err, util.ErrAnswerKeyFormat)

	err = s.SetAnswerKey(9999, nil)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestSetAnswerKeyReplacesAtomically(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizInactive)
	setAnswerKey(t, s, quiz.ID)

	entries := []AnswerKeyEntryReq{
		{QuestionNumber: 1, CorrectAnswer: "new1"},
		{QuestionNumber: 2, CorrectAnswer: "new2"},
		{QuestionNumber: 3, CorrectAnswer: "new3"},
		{QuestionNumber: 4, CorrectAnswer: "new4"},
		{QuestionNumber: 5, CorrectAnswer: "new5"},
	}
	require.NoError(t, s.SetAnswerKey(quiz.ID, entries))

	var keys []model.QuizAnswerKey
	require.NoError(t, db.Where("quiz_id = ?", quiz.ID).Find(&keys).Error)
	assert.Len(t, keys, 5)
	for _, k := range keys {
		assert.Contains(t, k.CorrectAnswer, "new")
	}

	// 旧行必须物理删除，留下软删除行会占用唯一索引、阻塞后续替换
	var raw int64
	require.NoError(t, db.Unscoped().Model(&model.QuizAnswerKey{}).
		Where("quiz_id = ?", quiz.ID).Count(&raw).Error)
	assert.Equal(t, int64(5), raw)

	// 再替换一轮仍然成功
	setAnswerKey(t, s, quiz.ID)
	key, err := s.Repo.FindCorrectAnswer(quiz.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Paris", key.CorrectAnswer)
}

func TestEnrollEligibility(t *testing.T) {
	s, db := newQuizService(t)
	createQuiz(t, s, model.QuizActive)

	teacher := &util.Claims{UserID: 999, Role: model.Teacher}
	_, err := s.Enroll(teacher)
	assert.ErrorIs(t, err, util.ErrOnlyStudents)

	ninthGrader := createStudent(t, db, "g9@example.com", intPtr(9))
	_, err = s.Enroll(ninthGrader)
	assert.ErrorIs(t, err, util.ErrGradeIneligible)

	noGrade := createStudent(t, db, "nograde@example.com", nil)
	_, err = s.Enroll(noGrade)
	assert.ErrorIs(t, err, util.ErrGradeIneligible)

	eligible := createStudent(t, db, "g8@example.com", intPtr(8))
	quiz, err := s.Enroll(eligible)
	require.NoError(t, err)
	assert.NotZero(t, quiz.ID)

	// 重复报名
	_, err = s.Enroll(eligible)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnrollRequiresActiveQuiz(t *testing.T) {
	s, db := newQuizService(t)
	createQuiz(t, s, model.QuizInactive)

	student := createStudent(t, db, "s@example.com", intPtr(5))
	_, err := s.Enroll(student)
	assert.ErrorIs(t, err, util.ErrNoActiveQuiz)
}

func TestScoringFirstAttempt(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	res, err := s.SubmitAnswer(student, quiz.ID, 1, "42")
	require.NoError(t, err)
	assert.Equal(t, 1, res.AttemptNumber)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 10, res.Score)

	res, err = s.SubmitAnswer(student, quiz.ID, 2, "London")
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, 0, res.Score)
}

func TestScoringSecondAttemptCorrection(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	// 第一次错、第二次对 → 部分分 5
	_, err := s.SubmitAnswer(student, quiz.ID, 1, "wrong")
	require.NoError(t, err)
	res, err := s.SubmitAnswer(student, quiz.ID, 1, "42")
	require.NoError(t, err)
	assert.Equal(t, 2, res.AttemptNumber)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 5, res.Score)
}

func TestScoringCorrectThenIncorrectRewritesFirst(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	res, err := s.SubmitAnswer(student, quiz.ID, 1, "42")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Score)

	// 对改错：本次 0 分，第一次的 10 分也被清零
	res, err = s.SubmitAnswer(student, quiz.ID, 1, "41")
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, 0, res.Score)

	var first model.QuizAttempt
	require.NoError(t, db.Where("user_id = ? AND quiz_id = ? AND question_number = ? AND attempt_number = 1",
		student.UserID, quiz.ID, 1).First(&first).Error)
	assert.Equal(t, 0, first.Score)
}

func TestScoringBothIncorrect(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	_, err := s.SubmitAnswer(student, quiz.ID, 1, "nope")
	require.NoError(t, err)
	res, err := s.SubmitAnswer(student, quiz.ID, 1, "still wrong")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
}

func TestAnswerNormalization(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	// 大小写与两端空白不影响判定
	res, err := s.SubmitAnswer(student, quiz.ID, 2, "  pArIs  ")
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 10, res.Score)

	var attempt model.QuizAttempt
	require.NoError(t, db.Where("user_id = ? AND question_number = 2", student.UserID).First(&attempt).Error)
	assert.Equal(t, "paris", attempt.Answer)
}

func TestSkipConsumesAttempt(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	res, err := s.SubmitAnswer(student, quiz.ID, 3, "   ")
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, 0, res.Score)

	var attempt model.QuizAttempt
	require.NoError(t, db.Where("user_id = ? AND question_number = 3", student.UserID).First(&attempt).Error)
	assert.Equal(t, "", attempt.Answer)

	// 跳过也消耗一次机会
	res, err = s.SubmitAnswer(student, quiz.ID, 3, "3.14")
	require.NoError(t, err)
	assert.Equal(t, 2, res.AttemptNumber)
	assert.Equal(t, 5, res.Score)

	_, err = s.SubmitAnswer(student, quiz.ID, 3, "3.14")
	assert.ErrorIs(t, err, util.ErrNoMoreAttempts)
}

func TestTwoAttemptCap(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	_, err := s.SubmitAnswer(student, quiz.ID, 1, "a")
	require.NoError(t, err)
	_, err = s.SubmitAnswer(student, quiz.ID, 1, "b")
	require.NoError(t, err)
	_, err = s.SubmitAnswer(student, quiz.ID, 1, "42")
	assert.ErrorIs(t, err, util.ErrNoMoreAttempts)
}

func TestLostAttemptRaceMapsToNoMoreAttempts(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	// 模拟并发竞争者在读取历史之后、写入之前抢先落库同一次序号
	racer := &model.QuizAttempt{
		UserID:         student.UserID,
		QuizID:         quiz.ID,
		QuestionNumber: 1,
		AttemptNumber:  2,
		Answer:         "41",
	}
	require.NoError(t, db.Create(racer).Error)

	_, err := s.SubmitAnswer(student, quiz.ID, 1, "42")
	assert.ErrorIs(t, err, util.ErrNoMoreAttempts)

	// 输掉竞争的写方没有留下记录
	var count int64
	require.NoError(t, db.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND question_number = 1", student.UserID, quiz.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDuplicateWritesRejectedByUniqueIndex(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	require.NoError(t, s.Repo.CreateEnrollment(&model.QuizEnrollment{UserID: student.UserID, QuizID: quiz.ID}))
	err := s.Repo.CreateEnrollment(&model.QuizEnrollment{UserID: student.UserID, QuizID: quiz.ID})
	require.Error(t, err)
	assert.True(t, repository.IsDuplicateKey(err))

	attempt := &model.QuizAttempt{UserID: student.UserID, QuizID: quiz.ID, QuestionNumber: 1, AttemptNumber: 1}
	require.NoError(t, s.Repo.CreateAttempt(attempt, 0))
	dup := &model.QuizAttempt{UserID: student.UserID, QuizID: quiz.ID, QuestionNumber: 1, AttemptNumber: 1}
	err = s.Repo.CreateAttempt(dup, 0)
	require.Error(t, err)
	assert.True(t, repository.IsDuplicateKey(err))
}

func TestSubmitAnswerValidation(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	_, err := s.SubmitAnswer(student, quiz.ID, 0, "x")
	assert.ErrorIs(t, err, util.ErrInvalidQuestionNum)
	_, err = s.SubmitAnswer(student, quiz.ID, 6, "x")
	assert.ErrorIs(t, err, util.ErrInvalidQuestionNum)

	_, err = s.SubmitAnswer(student, 9999, 1, "x")
	assert.ErrorIs(t, err, util.ErrQuizNotFound)

	teacher := &util.Claims{UserID: 1, Role: model.Teacher}
	_, err = s.SubmitAnswer(teacher, quiz.ID, 1, "x")
	assert.ErrorIs(t, err, util.ErrOnlyStudents)
}

func TestMissingAnswerKeyIsInternal(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	// 故意不配置答案键
	student := createStudent(t, db, "s@example.com", intPtr(7))

	_, err := s.SubmitAnswer(student, quiz.ID, 1, "42")
	assert.ErrorIs(t, err, util.ErrAnswerKeyMissing)
}

func TestSubmitFullQuizLifecycle(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	// 未报名不能终态提交
	err := s.SubmitFullQuiz(student.UserID, quiz.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = s.Enroll(student)
	require.NoError(t, err)

	_, err = s.SubmitAnswer(student, quiz.ID, 1, "42")
	require.NoError(t, err)

	require.NoError(t, s.SubmitFullQuiz(student.UserID, quiz.ID))

	// 提交后不可再答题
	_, err = s.SubmitAnswer(student, quiz.ID, 2, "Paris")
	assert.ErrorIs(t, err, util.ErrQuizSubmitted)

	// 不可重复提交
	err = s.SubmitFullQuiz(student.UserID, quiz.ID)
	assert.ErrorIs(t, err, util.ErrQuizAlreadyDone)
}

func TestTotalScoreGatedOnSubmission(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	_, err := s.GetTotalScore(student, quiz.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = s.Enroll(student)
	require.NoError(t, err)

	_, err = s.GetTotalScore(student, quiz.ID)
	assert.ErrorIs(t, err, util.ErrScoreNotAvailable)

	teacher := &util.Claims{UserID: 1, Role: model.Teacher}
	_, err = s.GetTotalScore(teacher, quiz.ID)
	assert.ErrorIs(t, err, util.ErrOnlyStudents)
}

func TestTotalScoreSumsMaxPerQuestion(t *testing.T) {
	s, db := newQuizService(t)
	quiz := createQuiz(t, s, model.QuizActive)
	setAnswerKey(t, s, quiz.ID)
	student := createStudent(t, db, "s@example.com", intPtr(7))

	_, err := s.Enroll(student)
	require.NoError(t, err)

	// 题1：一次答对 → 10
	_, err = s.SubmitAnswer(student, quiz.ID, 1, "42")
	require.NoError(t, err)

	// 题2：错后改对 → 5
	_, err = s.SubmitAnswer(student, quiz.ID, 2, "wrong")
	require.NoError(t, err)
	_, err = s.SubmitAnswer(student, quiz.ID, 2, "Paris")
	require.NoError(t, err)

	// 题3：对后改错 → 0（第一次被清零）
	_, err = s.SubmitAnswer(student, quiz.ID, 3, "3.14")
	require.NoError(t, err)
	_, err = s.SubmitAnswer(student, quiz.ID, 3, "2.71")
	require.NoError(t, err)

	// 题4：跳过 → 0；题5：未作答 → 0
	_, err = s.SubmitAnswer(student, quiz.ID, 4, "")
	require.NoError(t, err)

	require.NoError(t, s.SubmitFullQuiz(student.UserID, quiz.ID))

	total, err := s.GetTotalScore(student, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, total)
}
