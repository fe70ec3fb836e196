package model

import "time"

type QuizStatus string

const (
	QuizActive   QuizStatus = "active"
	QuizInactive QuizStatus = "inactive"
)

// QuizQuestionCount 每套测验固定 5 道题，答案键必须完整覆盖 1..5
const QuizQuestionCount = 5

// swagger:model Quiz
// Quiz 数学竞赛测验。全系统同一时刻最多一套测验处于 active 状态，
// 状态切换只经由 QuizService.UpdateStatus。
type Quiz struct {
	BaseModel
	Title           string     `gorm:"size:200;not null" json:"title"`
	Description     string     `gorm:"type:text;not null" json:"description"`
	AvailableFrom   time.Time  `gorm:"not null" json:"availableFrom"`
	AvailableUntil  time.Time  `gorm:"not null" json:"availableUntil"`
	DifficultyLevel string     `gorm:"size:50;not null" json:"difficultyLevel"`
	Date            time.Time  `gorm:"not null" json:"date"`
	PDFURL          string     `gorm:"size:500;not null" json:"pdfUrl"`
	Status          QuizStatus `gorm:"size:10;not null;default:'inactive';index" json:"status"` // 取值由 UpdateStatus 校验
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizAnswerKey 标准答案，按 (quiz_id, question_number) 唯一。
// 整套答案键的替换是删全部再插全部的单事务操作，不存在部分答案键。
type QuizAnswerKey struct {
	BaseModel
	QuizID         uint   `gorm:"uniqueIndex:uq_quiz_question;not null" json:"quizId"`
	QuestionNumber int    `gorm:"uniqueIndex:uq_quiz_question;not null" json:"questionNumber"`
	CorrectAnswer  string `gorm:"size:500;not null" json:"correctAnswer"`
}

func (QuizAnswerKey) TableName() string {
	return "quiz_correct_answers"
}

// QuizEnrollment 学生对某套测验的报名记录。
// IsSubmitted 只允许 false→true 一次，之后不可再答题。
type QuizEnrollment struct {
	BaseModel
	UserID      uint `gorm:"uniqueIndex:uq_quiz_enrollment;not null" json:"userId"`
	QuizID      uint `gorm:"uniqueIndex:uq_quiz_enrollment;not null" json:"quizId"`
	IsSubmitted bool `gorm:"default:false" json:"isSubmitted"`
}

func (QuizEnrollment) TableName() string {
	return "quiz_enrollments"
}

// QuizAttempt 单次答题记录。唯一索引含 attempt_number，
// 并发写入同一次序号时后写方直接失败，防止 check-then-act 竞态。
// 记录写入后除 Score（第二次答题可能回写第一次的分数）外不可变。
type QuizAttempt struct {
	BaseModel
	UserID         uint   `gorm:"uniqueIndex:uq_quiz_attempt;not null" json:"userId"`
	QuizID         uint   `gorm:"uniqueIndex:uq_quiz_attempt;not null" json:"quizId"`
	QuestionNumber int    `gorm:"uniqueIndex:uq_quiz_attempt;not null" json:"questionNumber"`
	AttemptNumber  int    `gorm:"uniqueIndex:uq_quiz_attempt;not null" json:"attemptNumber"`
	Answer         string `gorm:"size:500" json:"answer"` // 规范化后的答案，跳过题为空串
	IsCorrect      bool   `json:"isCorrect"`
	Score          int    `json:"score"`
}

func (QuizAttempt) TableName() string {
	return "quiz_student_answers"
}
