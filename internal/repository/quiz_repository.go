package repository

import (
	"mathwave_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) List() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

// FindActive 返回当前 active 的测验；不存在时返回 gorm.ErrRecordNotFound
func (r *QuizRepository) FindActive() (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Where("status = ?", model.QuizActive).First(&quiz).Error
	return &quiz, err
}

// SetStatus 切换测验状态。激活时先把现有 active 全部降级，
// 两步写入在同一事务内完成，保证读方看不到两套 active 并存。
func (r *QuizRepository) SetStatus(quizID uint, status model.QuizStatus) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if status == model.QuizActive {
			if err := tx.Model(&model.Quiz{}).
				Where("status = ?", model.QuizActive).
				Update("status", model.QuizInactive).Error; err != nil {
				return err
			}
		}

		res := tx.Model(&model.Quiz{}).Where("id = ?", quizID).Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.First(&quiz, quizID).Error
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ReplaceAnswerKey 整套替换答案键：删全部再插全部，单事务。
// 删除必须是物理删除——软删除的旧行仍占用 (quiz_id, question_number)
// 唯一索引，重插会直接冲突。
// 崩溃或失败回滚后保留旧答案键，任何读方都不会观察到不完整的 5 题集合。
func (r *QuizRepository) ReplaceAnswerKey(quizID uint, entries []model.QuizAnswerKey) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).Delete(&model.QuizAnswerKey{}).Error; err != nil {
			return err
		}
		for i := range entries {
			entries[i].QuizID = quizID
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuizRepository) FindCorrectAnswer(quizID uint, questionNumber int) (*model.QuizAnswerKey, error) {
	var key model.QuizAnswerKey
	err := r.DB.Where("quiz_id = ? AND question_number = ?", quizID, questionNumber).First(&key).Error
	return &key, err
}

func (r *QuizRepository) CreateEnrollment(enrollment *model.QuizEnrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *QuizRepository) FindEnrollment(userID, quizID uint) (*model.QuizEnrollment, error) {
	var enrollment model.QuizEnrollment
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&enrollment).Error
	return &enrollment, err
}

// MarkSubmitted 终态提交，仅允许 false→true 一次
func (r *QuizRepository) MarkSubmitted(userID, quizID uint) error {
	return r.DB.Model(&model.QuizEnrollment{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Update("is_submitted", true).Error
}

// ListAttempts 按 attempt_number 升序返回某题的历史答题记录
func (r *QuizRepository) ListAttempts(userID, quizID uint, questionNumber int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ? AND question_number = ?", userID, quizID, questionNumber).
		Order("attempt_number asc").
		Find(&attempts).Error
	return attempts, err
}

// CreateAttempt 写入一次答题记录；rewriteFirstID 非零时把第一次答题的分数
// 改写为 0（答对后又答错的回退惩罚）。两个写入同属一个事务，
// 不会出现只插入第二次记录而未回写第一次分数的中间状态。
func (r *QuizRepository) CreateAttempt(attempt *model.QuizAttempt, rewriteFirstID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if rewriteFirstID != 0 {
			if err := tx.Model(&model.QuizAttempt{}).
				Where("id = ?", rewriteFirstID).
				Update("score", 0).Error; err != nil {
				return err
			}
		}
		return tx.Create(attempt).Error
	})
}

// SumMaxScores 每题取历史最高分再求和，未作答的题按 0 计
func (r *QuizRepository) SumMaxScores(userID, quizID uint) (int, error) {
	var total int
	err := r.DB.Raw(`
		SELECT COALESCE(SUM(max_score), 0) AS total_score
		FROM (
			SELECT MAX(score) AS max_score
			FROM quiz_student_answers
			WHERE user_id = ? AND quiz_id = ? AND deleted_at IS NULL
			GROUP BY question_number
		) AS scores`, userID, quizID).Scan(&total).Error
	return total, err
}
