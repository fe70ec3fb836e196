package util

import "errors"

var (
	// 账号相关
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("please verify your email before logging in")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrOTPThrottled       = errors.New("verification code already sent, try again in a minute")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrPermissionDenied   = errors.New("permission denied")

	// 测验相关
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuizWindowInvalid  = errors.New("available_from must be earlier than available_until")
	ErrQuizStatusInvalid  = errors.New("status must be either active or inactive")
	ErrAnswerKeyCount     = errors.New("exactly 5 answers are required")
	ErrAnswerKeyFormat    = errors.New("question numbers must uniquely cover 1-5 and answers must be non-empty")
	ErrNoActiveQuiz       = errors.New("no active quiz found")
	ErrOnlyStudents       = errors.New("only students are allowed")
	ErrGradeIneligible    = errors.New("only students in grade 8 or below are eligible")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this quiz")
	ErrNotEnrolled        = errors.New("you are not enrolled in this quiz")
	ErrQuizSubmitted      = errors.New("you have already submitted this quiz, no more answers are allowed")
	ErrQuizAlreadyDone    = errors.New("quiz already submitted")
	ErrNoMoreAttempts     = errors.New("no more attempts allowed for this question")
	ErrScoreNotAvailable  = errors.New("you must submit the quiz before viewing your score")
	ErrAnswerKeyMissing   = errors.New("correct answer not found") // 数据配置缺陷，按内部错误处理
	ErrInvalidQuestionNum = errors.New("invalid quiz or question number")

	// 课程/班级相关
	ErrCourseNotFound     = errors.New("course not found")
	ErrNotCourseTeacher   = errors.New("you are not assigned to this course")
	ErrCourseAssigned     = errors.New("this course is already assigned to the teacher")
	ErrIDProofRequired    = errors.New("ID verification required to enroll")
	ErrClassNotFound      = errors.New("class not found")
	ErrNotEnrolledInClass = errors.New("you are not enrolled in this class")
	ErrZoomNotConnected   = errors.New("Zoom not connected, call /api/zoom/auth first")
)
