// Package termid 学期标识编解码
//
// 学期标识格式固定为 "{学期序号}-{4位学年}"，如 "1-2567"。
// 时段、排课等复合标识内嵌学期标识，跨学期复制时通过 Remap 整体替换。
package termid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedIdentifier 学期标识或复合标识格式错误
var ErrMalformedIdentifier = errors.New("学期标识格式错误")

const separator = "-"

var formatPattern = regexp.MustCompile(`^[1-3]-\d{4}$`)

// Semester 学期枚举
type Semester int

const (
	SemesterFirst  Semester = 1
	SemesterSecond Semester = 2
)

// Ordinal 学期序号字符串
func (s Semester) Ordinal() string {
	return strconv.Itoa(int(s))
}

// IsValid 是否为受支持的学期
func (s Semester) IsValid() bool {
	return s == SemesterFirst || s == SemesterSecond
}

// Encode 由学期序号与学年生成学期标识
func Encode(semesterOrdinal string, academicYear int) string {
	return semesterOrdinal + separator + strconv.Itoa(academicYear)
}

// EncodeSemester 由学期枚举与学年生成学期标识
func EncodeSemester(semester Semester, academicYear int) string {
	return Encode(semester.Ordinal(), academicYear)
}

// Decode 拆分学期标识为学期序号与学年
func Decode(id string) (string, int, error) {
	parts := strings.Split(id, separator)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("%w: %q 应为 学期-学年", ErrMalformedIdentifier, id)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q 学年不是数字", ErrMalformedIdentifier, id)
	}
	return parts[0], year, nil
}

// ValidateFormat 校验学期标识是否符合 {1-3}-{4位数字}
func ValidateFormat(id string) error {
	if !formatPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrMalformedIdentifier, id)
	}
	return nil
}

// ParseSemester 解析学期序号，仅接受 "1" 与 "2"
func ParseSemester(ordinal string) (Semester, error) {
	switch ordinal {
	case "1":
		return SemesterFirst, nil
	case "2":
		return SemesterSecond, nil
	default:
		return 0, fmt.Errorf("%w: 学期只能为 1 或 2，实际 %q", ErrMalformedIdentifier, ordinal)
	}
}

// Parse 完整解析学期标识：格式、学年与学期均须合法
func Parse(id string) (Semester, int, error) {
	if err := ValidateFormat(id); err != nil {
		return 0, 0, err
	}
	ordinal, year, err := Decode(id)
	if err != nil {
		return 0, 0, err
	}
	semester, err := ParseSemester(ordinal)
	if err != nil {
		return 0, 0, err
	}
	return semester, year, nil
}

// RemapEmbeddedIdentifier 将复合标识中出现的每一处 from 替换为 to
func RemapEmbeddedIdentifier(s, from, to string) string {
	if from == "" {
		return s
	}
	return strings.ReplaceAll(s, from, to)
}
