package revenue

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// titleTemplates holds SEO title patterns per category. The template for a
// given keyword is picked by a stable hash so repeated runs agree.
var titleTemplates = map[string][]string{
	"금융": {
		"%s 총정리, 놓치면 손해보는 핵심 포인트",
		"%s 한눈에 보기: 조건부터 신청 방법까지",
		"%s 완벽 가이드 (최신 기준)",
	},
	"보험": {
		"%s 가입 전 반드시 확인할 것들",
		"%s 비교 분석, 어떤 게 유리할까",
		"%s 핵심만 정리했습니다",
	},
	"재테크": {
		"%s 시작하는 법, 초보자용 정리",
		"%s 전략 총정리",
		"%s 제대로 알고 시작하기",
	},
	"법률": {
		"%s 절차와 비용, 꼭 알아야 할 내용",
		"%s 전문가 없이 이해하기",
	},
	"정책지원": {
		"%s 신청 자격과 방법 총정리",
		"%s 받는 법, 조건 한눈에 보기",
	},
	"건강": {
		"%s 효과와 주의사항 정리",
		"%s 제대로 알고 관리하기",
	},
	"부동산": {
		"%s 체크리스트, 계약 전 필독",
		"%s 핵심 정리 (최신 기준)",
	},
	"교육": {
		"%s 준비 방법과 비용 정리",
		"%s 합격을 위한 현실적인 가이드",
	},
	"IT": {
		"%s 스펙 비교와 구매 가이드",
		"%s 선택 전 알아야 할 것들",
	},
	"여행": {
		"%s 일정과 예산 짜는 법",
		"%s 준비물과 꿀팁 총정리",
	},
	"요리": {
		"%s 맛있게 만드는 법",
		"%s 초보도 가능한 레시피",
	},
}

// fallback templates for categories without a bank entry
var defaultTemplates = []string{
	"%s 총정리",
	"%s 알아두면 좋은 것들",
	"%s 한눈에 정리",
}

// longTailSuffixes and longTailPrefixes are cross-produced with the keyword
var longTailSuffixes = []string{
	"방법", "조건", "비교", "추천", "후기", "순위", "신청 방법", "주의사항",
}

var longTailPrefixes = []string{"2026", "최신", "무료"}

const maxLongTails = 12

// suggestTitle picks a stable template for the keyword's category
func suggestTitle(keyword, category string) string {
	bank, ok := titleTemplates[category]
	if !ok || len(bank) == 0 {
		bank = defaultTemplates
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(keyword))
	return fmt.Sprintf(bank[h.Sum32()%uint32(len(bank))], keyword)
}

// longTailVariants cross-produces the keyword with fixed suffix and prefix
// lists, dedupes and caps the result
func longTailVariants(keyword string) []string {
	seen := make(map[string]struct{})
	variants := make([]string, 0, maxLongTails)

	add := func(v string) {
		if len(variants) >= maxLongTails {
			return
		}
		key := strings.ToLower(strings.Join(strings.Fields(v), " "))
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		variants = append(variants, v)
	}

	for _, s := range longTailSuffixes {
		if strings.Contains(keyword, s) {
			continue // already long-tail on this axis
		}
		add(keyword + " " + s)
	}
	for _, p := range longTailPrefixes {
		if strings.Contains(keyword, p) {
			continue
		}
		add(p + " " + keyword)
	}
	return variants
}
