package revenue

import "github.com/shshajek-cpu/blogwise-sub000/pkg/domain"

// niche maps keyword patterns to an estimated monetization profile
type niche struct {
	patterns []string
	cpcMin   float64
	cpcMax   float64
	category string
	volume   domain.SearchVolume
}

// nicheTable is checked in order, first match wins. CPC ranges are rough USD
// estimates for the Korean ad market; loans and insurance pay the most.
var nicheTable = []niche{
	{
		patterns: []string{"대출", "마이너스통장", "신용회복", "햇살론"},
		cpcMin:   2.5, cpcMax: 8.0,
		category: "금융", volume: domain.VolumeHigh,
	},
	{
		patterns: []string{"보험", "실비", "암보험", "자동차보험"},
		cpcMin:   2.0, cpcMax: 6.5,
		category: "보험", volume: domain.VolumeHigh,
	},
	{
		patterns: []string{"신용카드", "카드발급", "카드추천", "연회비"},
		cpcMin:   1.5, cpcMax: 4.5,
		category: "금융", volume: domain.VolumeHigh,
	},
	{
		patterns: []string{"주식", "투자", "재테크", "펀드", "코인", "비트코인", "연금"},
		cpcMin:   1.2, cpcMax: 4.0,
		category: "재테크", volume: domain.VolumeVeryHigh,
	},
	{
		patterns: []string{"변호사", "법률", "소송", "이혼", "상속", "형사"},
		cpcMin:   1.8, cpcMax: 5.5,
		category: "법률", volume: domain.VolumeMedium,
	},
	{
		patterns: []string{"지원금", "보조금", "정부지원", "청년", "국민취업"},
		cpcMin:   1.0, cpcMax: 3.0,
		category: "정책지원", volume: domain.VolumeVeryHigh,
	},
	{
		patterns: []string{"다이어트", "건강", "영양제", "병원", "치과", "피부과"},
		cpcMin:   0.8, cpcMax: 2.5,
		category: "건강", volume: domain.VolumeVeryHigh,
	},
	{
		patterns: []string{"부동산", "아파트", "전세", "월세", "청약", "분양"},
		cpcMin:   1.0, cpcMax: 3.5,
		category: "부동산", volume: domain.VolumeHigh,
	},
	{
		patterns: []string{"유학", "어학연수", "토익", "자격증", "공무원", "인강"},
		cpcMin:   0.7, cpcMax: 2.2,
		category: "교육", volume: domain.VolumeMedium,
	},
	{
		patterns: []string{"아이폰", "갤럭시", "노트북", "맥북", "공기계", "요금제"},
		cpcMin:   0.5, cpcMax: 1.8,
		category: "IT", volume: domain.VolumeHigh,
	},
	{
		patterns: []string{"여행", "항공권", "호텔", "렌터카", "제주도"},
		cpcMin:   0.4, cpcMax: 1.5,
		category: "여행", volume: domain.VolumeHigh,
	},
	{
		patterns: []string{"레시피", "요리", "맛집", "배달"},
		cpcMin:   0.2, cpcMax: 0.8,
		category: "요리", volume: domain.VolumeMedium,
	},
}

// defaultNiche applies when no pattern matches
var defaultNiche = niche{
	cpcMin: 0.1, cpcMax: 0.4,
	category: "라이프", volume: domain.VolumeLow,
}

// maxMidCPC is the largest CPC midpoint in the table, used to normalize the
// revenue formula so only the best-case keyword can saturate near 100
var maxMidCPC = func() float64 {
	m := (defaultNiche.cpcMin + defaultNiche.cpcMax) / 2
	for _, n := range nicheTable {
		if mid := (n.cpcMin + n.cpcMax) / 2; mid > m {
			m = mid
		}
	}
	return m
}()

// matchNiche returns the first niche whose pattern appears in the keyword
func matchNiche(keyword string) niche {
	for _, n := range nicheTable {
		for _, p := range n.patterns {
			if containsFold(keyword, p) {
				return n
			}
		}
	}
	return defaultNiche
}
