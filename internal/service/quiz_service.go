package service

import (
	"strings"
	"time"

	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/util"
	"mathwave_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// QuizService 测验引擎：生命周期、答案键、报名台账、答题记录与计分策略
type QuizService struct {
	Repo     *repository.QuizRepository
	UserRepo *repository.UserRepository
}

func NewQuizService(repo *repository.QuizRepository, userRepo *repository.UserRepository) *QuizService {
	return &QuizService{Repo: repo, UserRepo: userRepo}
}

// 年级上限，超过该年级的学生不能报名或答题
const maxEligibleGrade = 8

const (
	firstAttemptScore     = 10 // 第一次就答对
	correctedAttemptScore = 5  // 第一次错、第二次对的部分分
)

type CreateQuizReq struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description" binding:"required"`
	AvailableFrom   time.Time `json:"available_from" binding:"required"`
	AvailableUntil  time.Time `json:"available_until" binding:"required"`
	DifficultyLevel string    `json:"difficulty_level" binding:"required"`
	Date            time.Time `json:"date" binding:"required"`
	PDFURL          string    `json:"pdf_url" binding:"required"`
}

func (s *QuizService) CreateQuiz(req CreateQuizReq) (*model.Quiz, error) {
	if !req.AvailableFrom.Before(req.AvailableUntil) {
		return nil, util.ErrQuizWindowInvalid
	}

	quiz := &model.Quiz{
		Title:           req.Title,
		Description:     req.Description,
		AvailableFrom:   req.AvailableFrom,
		AvailableUntil:  req.AvailableUntil,
		DifficultyLevel: req.DifficultyLevel,
		Date:            req.Date,
		PDFURL:          req.PDFURL,
		Status:          model.QuizInactive,
	}

	if err := s.Repo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

type AnswerKeyEntryReq struct {
	QuestionNumber int    `json:"question_number"`
	CorrectAnswer  string `json:"correct_answer"`
}

// SetAnswerKey 整套提交答案键：必须恰好 5 条、题号唯一覆盖 1..5、答案非空。
// 校验全部通过后才触发删全量重插的事务，旧答案键在失败时原样保留。
func (s *QuizService) SetAnswerKey(quizID uint, entries []AnswerKeyEntryReq) error {
	if _, err := s.Repo.FindByID(quizID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrQuizNotFound
		}
		return err
	}

	if len(entries) != model.QuizQuestionCount {
		return util.ErrAnswerKeyCount
	}

	seen := make(map[int]bool, model.QuizQuestionCount)
	keys := make([]model.QuizAnswerKey, 0, model.QuizQuestionCount)
	for _, e := range entries {
		answer := strings.TrimSpace(e.CorrectAnswer)
		if e.QuestionNumber < 1 || e.QuestionNumber > model.QuizQuestionCount || answer == "" || seen[e.QuestionNumber] {
			return util.ErrAnswerKeyFormat
		}
		seen[e.QuestionNumber] = true
		keys = append(keys, model.QuizAnswerKey{
			QuestionNumber: e.QuestionNumber,
			CorrectAnswer:  answer,
		})
	}

	return s.Repo.ReplaceAnswerKey(quizID, keys)
}

func (s *QuizService) ListQuizzes() ([]model.Quiz, error) {
	return s.Repo.List()
}

// UpdateStatus 切换测验状态；激活动作会先把其它 active 测验全部降级
func (s *QuizService) UpdateStatus(quizID uint, status string) (*model.Quiz, error) {
	st := model.QuizStatus(status)
	if st != model.QuizActive && st != model.QuizInactive {
		return nil, util.ErrQuizStatusInvalid
	}

	quiz, err := s.Repo.SetStatus(quizID, st)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) GetActiveQuiz() (*model.Quiz, error) {
	quiz, err := s.Repo.FindActive()
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNoActiveQuiz
		}
		return nil, err
	}
	return quiz, nil
}

// eligibleStudent 统一的答题资格判定：学生角色且年级 ≤ 8。
// 年级未填写视为不合格。报名和答题共用同一判定。
func (s *QuizService) eligibleStudent(claims *util.Claims) error {
	if claims.Role != model.Student {
		return util.ErrOnlyStudents
	}

	profile, err := s.UserRepo.FindStudentProfile(claims.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrGradeIneligible
		}
		return err
	}
	if profile.GradeLevel == nil || *profile.GradeLevel > maxEligibleGrade {
		return util.ErrGradeIneligible
	}
	return nil
}

// Enroll 把学生报名进当前 active 的测验。重复报名直接拒绝，
// 唯一索引兜底并发下的双写。
func (s *QuizService) Enroll(claims *util.Claims) (*model.Quiz, error) {
	if err := s.eligibleStudent(claims); err != nil {
		return nil, err
	}

	quiz, err := s.GetActiveQuiz()
	if err != nil {
		return nil, err
	}

	if _, err := s.Repo.FindEnrollment(claims.UserID, quiz.ID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	enrollment := &model.QuizEnrollment{UserID: claims.UserID, QuizID: quiz.ID}
	if err := s.Repo.CreateEnrollment(enrollment); err != nil {
		// 并发双写时唯一索引拒绝后写方
		if repository.IsDuplicateKey(err) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return quiz, nil
}

// AnswerResult 单次答题的结果
type AnswerResult struct {
	Skipped       bool `json:"-"`
	AttemptNumber int  `json:"attemptNumber"`
	IsCorrect     bool `json:"isCorrect"`
	Score         int  `json:"score"`
}

// SubmitAnswer 记录一次答题并按计分策略评分。
//
// 计分策略（非对称，兼顾纠错奖励与回退惩罚）：
//   - 第 1 次：答对 10 分，答错 0 分
//   - 第 2 次：第 1 次对、这次错 → 本次 0 分且第 1 次的分数改写为 0；
//     第 1 次错、这次对 → 5 分；其余情况 0 分
//
// 每题总分取两次记录的最高分，所以对→错的改写正是让 MAX 聚合成立的关键。
func (s *QuizService) SubmitAnswer(claims *util.Claims, quizID uint, questionNumber int, rawAnswer string) (*AnswerResult, error) {
	if err := s.eligibleStudent(claims); err != nil {
		return nil, err
	}

	if questionNumber < 1 || questionNumber > model.QuizQuestionCount {
		return nil, util.ErrInvalidQuestionNum
	}

	if _, err := s.Repo.FindByID(quizID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	// 终态提交后不允许再答题；没有报名记录等同于未提交
	enrollment, err := s.Repo.FindEnrollment(claims.UserID, quizID)
	if err == nil && enrollment.IsSubmitted {
		return nil, util.ErrQuizSubmitted
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	previous, err := s.Repo.ListAttempts(claims.UserID, quizID, questionNumber)
	if err != nil {
		return nil, err
	}
	if len(previous) >= 2 {
		return nil, util.ErrNoMoreAttempts
	}
	attemptNumber := len(previous) + 1

	key, err := s.Repo.FindCorrectAnswer(quizID, questionNumber)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// 答案键缺失是出题配置缺陷，按内部错误上抛
			return nil, util.ErrAnswerKeyMissing
		}
		return nil, err
	}
	correctAnswer := strings.ToLower(strings.TrimSpace(key.CorrectAnswer))

	isSkipped := strings.TrimSpace(rawAnswer) == ""
	submittedAnswer := ""
	isCorrect := false
	if !isSkipped {
		submittedAnswer = strings.ToLower(strings.TrimSpace(rawAnswer))
		isCorrect = submittedAnswer == correctAnswer
	}

	score := 0
	var rewriteFirstID uint
	if attemptNumber == 1 {
		if isCorrect {
			score = firstAttemptScore
		}
	} else {
		first := previous[0]
		switch {
		case first.IsCorrect && !isCorrect:
			// 对改错：本次 0 分，并把第 1 次的 10 分清零
			rewriteFirstID = first.ID
		case !first.IsCorrect && isCorrect:
			score = correctedAttemptScore
		}
	}

	attempt := &model.QuizAttempt{
		UserID:         claims.UserID,
		QuizID:         quizID,
		QuestionNumber: questionNumber,
		AttemptNumber:  attemptNumber,
		Answer:         submittedAnswer,
		IsCorrect:      isCorrect,
		Score:          score,
	}
	if err := s.Repo.CreateAttempt(attempt, rewriteFirstID); err != nil {
		// 并发写同一次序号时唯一索引拒绝后写方，等同机会用尽
		if repository.IsDuplicateKey(err) {
			return nil, util.ErrNoMoreAttempts
		}
		return nil, err
	}

	switch {
	case isSkipped:
		monitoring.QuizAttemptCounter.WithLabelValues("skipped").Inc()
	case isCorrect:
		monitoring.QuizAttemptCounter.WithLabelValues("correct").Inc()
	default:
		monitoring.QuizAttemptCounter.WithLabelValues("incorrect").Inc()
	}

	return &AnswerResult{
		Skipped:       isSkipped,
		AttemptNumber: attemptNumber,
		IsCorrect:     isCorrect,
		Score:         score,
	}, nil
}

// SubmitFullQuiz 终态提交：报名记录必须存在且尚未提交过
func (s *QuizService) SubmitFullQuiz(userID, quizID uint) error {
	enrollment, err := s.Repo.FindEnrollment(userID, quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrNotEnrolled
		}
		return err
	}

	if enrollment.IsSubmitted {
		return util.ErrQuizAlreadyDone
	}

	return s.Repo.MarkSubmitted(userID, quizID)
}

// GetTotalScore 终态提交之后才允许查分
func (s *QuizService) GetTotalScore(claims *util.Claims, quizID uint) (int, error) {
	if claims.Role != model.Student {
		return 0, util.ErrOnlyStudents
	}

	enrollment, err := s.Repo.FindEnrollment(claims.UserID, quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, util.ErrNotEnrolled
		}
		return 0, err
	}
	if !enrollment.IsSubmitted {
		return 0, util.ErrScoreNotAvailable
	}

	return s.Repo.SumMaxScores(claims.UserID, quizID)
}
