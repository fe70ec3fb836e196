package database

import (
	"testing"

	"mathwave_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 建表 DDL 必须同时兼容生产的 MySQL 与测试用的 sqlite 方言，
// 列类型不允许出现方言私有语法
func TestMigrateRunsOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, SeedRegions(db))

	for _, table := range []string{
		"users", "quizzes", "quiz_correct_answers", "quiz_enrollments", "quiz_student_answers",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// 字符串列上的默认值照常生效
	user := &model.User{Email: "default@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	var loaded model.User
	require.NoError(t, db.First(&loaded, user.ID).Error)
	assert.Equal(t, model.Student, loaded.Role)
}
