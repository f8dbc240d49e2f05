package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BuildClusters_Containment(t *testing.T) {
	b := NewBuilder()

	items := []Input{
		{Keyword: "전세 대출", Category: "금융", RevenuePotential: 70},
		{Keyword: "전세 대출 금리", Category: "금융", RevenuePotential: 65},
		{Keyword: "전세 대출 조건", Category: "금융", RevenuePotential: 60},
		{Keyword: "제주도 여행", Category: "여행", RevenuePotential: 40},
		{Keyword: "제주도 여행 코스", Category: "여행", RevenuePotential: 45},
		{Keyword: "암보험 비교", Category: "보험", RevenuePotential: 55},
	}

	clusters := b.BuildClusters(items)

	// every keyword appears exactly once across all clusters
	counts := make(map[string]int)
	for _, c := range clusters {
		for _, k := range c.ClusterKeywords {
			counts[k]++
		}
	}
	require.Len(t, counts, len(items))
	for _, item := range items {
		assert.Equal(t, 1, counts[item.Keyword], "keyword %q must appear exactly once", item.Keyword)
	}
}

func TestBuilder_BuildClusters_PillarSelection(t *testing.T) {
	b := NewBuilder()

	items := []Input{
		{Keyword: "전세 대출 금리 비교", Category: "금융", RevenuePotential: 80},
		{Keyword: "전세 대출", Category: "금융", RevenuePotential: 60},
		{Keyword: "전세 대출 조건", Category: "금융", RevenuePotential: 75},
	}

	clusters := b.BuildClusters(items)
	require.Len(t, clusters, 1)

	c := clusters[0]
	assert.Equal(t, "전세 대출", c.PillarKeyword, "shortest keyword anchors the cluster")
	assert.Equal(t, "금융", c.PillarCategory)
	assert.Len(t, c.ClusterKeywords, 3)
	assert.InDelta(t, 215.0, c.TotalRevenueScore, 0.001)
	assert.Equal(t, 3, c.ContentCount)
}

func TestBuilder_BuildClusters_CategorySplits(t *testing.T) {
	b := NewBuilder()

	// lexically similar but different categories must not merge
	items := []Input{
		{Keyword: "자동차 보험", Category: "보험", RevenuePotential: 50},
		{Keyword: "자동차 보험금", Category: "법률", RevenuePotential: 50},
	}

	clusters := b.BuildClusters(items)
	assert.Len(t, clusters, 2)
}

func TestBuilder_BuildClusters_ContentCountClamp(t *testing.T) {
	b := NewBuilder()

	items := make([]Input, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, Input{
			Keyword:          "전세 대출 조건 " + string(rune('a'+i)),
			Category:         "금융",
			RevenuePotential: 50,
		})
	}

	clusters := b.BuildClusters(items)
	require.NotEmpty(t, clusters)
	for _, c := range clusters {
		assert.LessOrEqual(t, c.ContentCount, 7)
		assert.GreaterOrEqual(t, c.ContentCount, 1)
	}
}

func TestBuilder_ClassifyContentRole(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name    string
		keyword string
		aux     int
		want    Role
	}{
		{"single token head", "대출", 0, RolePillar},
		{"two tokens", "전세 대출", 0, RolePillar},
		{"four tokens", "소상공인 전세 대출 조건", 0, RoleCluster},
		{"very long compound", "주택담보대출갈아타기비교총정리가이드", 0, RoleCluster},
		{"three tokens low aux", "전세 대출 금리", 1, RolePillar},
		{"three tokens high aux", "전세 대출 금리", 3, RoleCluster},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.ClassifyContentRole(tt.keyword, tt.aux))
		})
	}
}

func TestBuilder_FindPillarForCluster(t *testing.T) {
	b := NewBuilder()

	pillars := []string{"전세 대출", "제주도 여행", "암보험"}

	pillar, ok := b.FindPillarForCluster("전세 대출 금리 비교", pillars)
	require.True(t, ok)
	assert.Equal(t, "전세 대출", pillar)

	// dissimilar keyword is not forced onto any pillar
	_, ok = b.FindPillarForCluster("코딩 배우기", pillars)
	assert.False(t, ok)
}
