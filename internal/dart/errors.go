package dart

import (
	"errors"
	"fmt"
)

// OpenDART response status codes.
const (
	StatusOK     = "000"
	StatusNoData = "013"
)

// ErrTimeout is returned when an OpenDART call exceeds the configured wait.
var ErrTimeout = errors.New("opendart request timed out")

var statusDescriptions = map[string]string{
	"010": "등록되지 않은 키입니다.",
	"011": "사용할 수 없는 키입니다.",
	"012": "접근할 수 없는 IP입니다.",
	"013": "조회된 데이타가 없습니다.",
	"014": "파일이 존재하지 않습니다.",
	"020": "요청 제한을 초과하였습니다.",
	"021": "조회 가능한 회사 개수가 초과하였습니다.(최대 100건)",
	"100": "필드의 부적절한 값입니다.",
	"101": "부적절한 접근입니다.",
	"800": "시스템 점검으로 인한 서비스가 중지 중입니다.",
	"900": "정의되지 않은 오류가 발생하였습니다.",
	"901": "사용자 계정의 개인정보 보유기간이 만료되어 사용할 수 없는 키입니다.",
}

// StatusDescription returns the documented meaning of an OpenDART status, or
// an empty string for unknown codes.
func StatusDescription(status string) string {
	return statusDescriptions[status]
}

// APIError is a non-success, non-empty status returned by OpenDART.
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = StatusDescription(e.Status)
	}
	return fmt.Sprintf("DART API 오류 (%s): %s", e.Status, msg)
}

// checkStatus maps a response status. It reports empty=true for "013".
func checkStatus(status, message string) (empty bool, err error) {
	switch status {
	case StatusOK:
		return false, nil
	case StatusNoData:
		return true, nil
	default:
		return false, &APIError{Status: status, Message: message}
	}
}
