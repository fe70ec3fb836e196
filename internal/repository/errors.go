package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry MySQL 唯一索引冲突的错误码
const mysqlDuplicateEntry = 1062

// IsDuplicateKey 判断错误是否为唯一索引冲突。
// 未启用 gorm 的 TranslateError，需要直接识别驱动错误：
// MySQL 按 1062 错误码，sqlite 按 UNIQUE constraint 文本。
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
