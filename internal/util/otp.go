package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateOTP 生成 6 位数字验证码
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand 失败在实践中意味着系统熵源不可用
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// GenerateResetToken 生成密码重置用的随机令牌
func GenerateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
