package constants

import "time"

var CacheTTL = struct {
	BISEntry       time.Duration
	ReportDocument time.Duration
	RedisSnapshot  time.Duration
}{
	BISEntry:       12 * time.Hour,   // 12시간 - 빌드별 BIS 결과
	ReportDocument: 10 * time.Minute, // 10분 - 리포트 페이지 원문 재사용
	RedisSnapshot:  12 * time.Hour,   // 12시간 - 재시작 대비 스냅샷
}

var SweepConfig = struct {
	Interval     time.Duration
	RunOnStart   bool
	PerBuildWait time.Duration
}{
	Interval:     12 * time.Hour,
	RunOnStart:   true,
	PerBuildWait: 0,
}

var ReportConfig = struct {
	URL            string
	UserAgent      string
	FetchTimeout   time.Duration
	MaxBytes       int64
	BrowserTimeout time.Duration
	HeuristicRows  int
}{
	URL:            "https://www.simulationcraft.org/reports/TWW2_Raid.html",
	UserAgent:      "Mozilla/5.0 (compatible; AzeriteBot/1.0)",
	FetchTimeout:   30 * time.Second,
	MaxBytes:       32 * 1024 * 1024, // 리포트 페이지는 수 MB 단위
	BrowserTimeout: 20 * time.Second,
	HeuristicRows:  5,
}

var WebSocketConfig = struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
}{
	MaxReconnectAttempts: 5,
	ReconnectDelay:       5 * time.Second,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,               // 3회 연속 실패 시 Circuit OPEN
	ResetTimeout:     5 * time.Minute, // 리포트 서버 재시도 대기 시간
}

var QueryConfig = struct {
	MaxFanOut      int
	MaxWorkers     int
	RequestTimeout time.Duration
}{
	MaxFanOut:      8,
	MaxWorkers:     4,
	RequestTimeout: 2 * time.Minute,
}

var Branding = struct {
	Footer    string
	Thumbnail string
}{
	Footer:    "Powered by Azerite!\nVisit -> https://azerite.app\nDonate -> https://www.patreon.com/Shadlynn/membership",
	Thumbnail: "https://i.imgur.com/fK2PvPV.png",
}

var StringLimits = struct {
	PayloadTitle       int
	PayloadDescription int
	FieldName          int
	FieldValue         int
	MaxFields          int
	MessageLength      int
	StatLine           int
}{
	PayloadTitle:       256,
	PayloadDescription: 4096,
	FieldName:          256,
	FieldValue:         1024,
	MaxFields:          25,
	MessageLength:      4000,
	StatLine:           900,
}
