package trends

import (
	"context"
	"time"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// seasonalEntry is one calendar-bound keyword
type seasonalEntry struct {
	keyword  string
	category string
	reason   string
}

// seasonalCalendar maps each month to keywords that spike in it. Next
// month's entries are also emitted at reduced weight to seed prepare-ahead
// content before the spike arrives.
var seasonalCalendar = map[time.Month][]seasonalEntry{
	time.January:   {{"연말정산 환급금 조회", "금융", "1월 연말정산 시즌"}, {"새해 적금 추천", "재테크", "새해 재테크 결심 수요"}},
	time.February:  {{"이사 전세 대출", "부동산", "봄 이사철 시작"}, {"졸업 선물 추천", "라이프", "졸업 시즌"}},
	time.March:     {{"종합소득세 신고 대상", "금융", "5월 신고 준비 시작"}, {"신학기 노트북 추천", "IT", "신학기 수요"}},
	time.April:     {{"근로장려금 신청 자격", "정책지원", "5월 근로장려금 신청 시즌"}, {"종합소득세 절세 방법", "금융", "종소세 신고 임박"}},
	time.May:       {{"종합소득세 신고 방법", "금융", "5월 종합소득세 신고의 달"}, {"가정의달 선물 추천", "라이프", "가정의 달"}},
	time.June:      {{"여름 휴가지 추천", "여행", "여름 휴가 계획 시즌"}, {"에어컨 전기요금 절약", "라이프", "냉방비 관심 급증"}},
	time.July:      {{"재산세 납부 방법", "금융", "7월 재산세 납부의 달"}, {"장마철 제습기 추천", "IT", "장마철"}},
	time.August:    {{"2학기 국가장학금 신청", "교육", "2학기 장학금 신청 기간"}, {"휴가철 여행자보험 비교", "보험", "휴가철 보험 수요"}},
	time.September: {{"추석 기차표 예매 방법", "여행", "추석 연휴 준비"}, {"재산세 2기분 납부", "금융", "9월 재산세 2기분"}},
	time.October:   {{"연말정산 미리보기", "금융", "연말정산 준비 시작"}, {"독감 예방접종 무료 대상", "건강", "독감 접종 시즌"}},
	time.November:  {{"수능 이후 아르바이트", "라이프", "수능 직후 수요"}, {"연말 보험 리모델링", "보험", "보험 갱신 시즌"}},
	time.December:  {{"연말정산 소득공제 꿀팁", "금융", "연말정산 막바지 준비"}, {"크리스마스 선물 추천", "라이프", "연말 선물 수요"}},
}

// evergreenKeywords have consistent year-round demand
var evergreenKeywords = []seasonalEntry{
	{"신용점수 올리는 방법", "금융", "연중 꾸준한 수요"},
	{"전세 대출 조건", "금융", "연중 꾸준한 수요"},
	{"실비보험 청구 방법", "보험", "연중 꾸준한 수요"},
	{"자동차보험 비교 견적", "보험", "연중 꾸준한 수요"},
	{"청년 지원금 종류", "정책지원", "연중 꾸준한 수요"},
	{"퇴직금 계산 방법", "금융", "연중 꾸준한 수요"},
	{"개인회생 신청 자격", "법률", "연중 꾸준한 수요"},
	{"주택청약 1순위 조건", "부동산", "연중 꾸준한 수요"},
}

const (
	seasonalBaseScore  = 75.0
	nextMonthPenalty   = 10.0
	evergreenBaseScore = 60.0
)

// EvergreenSource generates the always-available evergreen and seasonal
// candidates; it needs no network and never fails
type EvergreenSource struct {
	now func() time.Time
}

// NewEvergreenSource creates the static keyword source
func NewEvergreenSource() *EvergreenSource {
	return &EvergreenSource{now: time.Now}
}

// Name identifies the source in logs
func (s *EvergreenSource) Name() string { return "evergreen" }

// Fetch returns the evergreen pool plus this month's seasonal entries at full
// weight and next month's at reduced weight
func (s *EvergreenSource) Fetch(_ context.Context) ([]domain.TrendingTopic, error) {
	now := s.now()
	topics := make([]domain.TrendingTopic, 0, len(evergreenKeywords)+4)

	for _, e := range evergreenKeywords {
		topics = append(topics, domain.TrendingTopic{
			Keyword:     e.keyword,
			Source:      domain.SourceEvergreen,
			Category:    e.category,
			TrendScore:  evergreenBaseScore,
			FetchedAt:   now,
			KeywordType: domain.KeywordEvergreen,
			Reason:      e.reason,
		})
	}

	appendMonth := func(m time.Month, score float64, prefix string) {
		for _, e := range seasonalCalendar[m] {
			topics = append(topics, domain.TrendingTopic{
				Keyword:     e.keyword,
				Source:      domain.SourceEvergreen,
				Category:    e.category,
				TrendScore:  score,
				FetchedAt:   now,
				KeywordType: domain.KeywordSeasonal,
				Reason:      prefix + e.reason,
			})
		}
	}
	appendMonth(now.Month(), seasonalBaseScore, "")
	nextMonth := now.Month()%12 + 1 // AddDate overflows at month end
	appendMonth(nextMonth, seasonalBaseScore-nextMonthPenalty, "다음 달 대비: ")

	return topics, nil
}
