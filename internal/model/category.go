package model

// Categories 固定的文章分类集合（与前端下拉一致）
var Categories = []string{
	"Personal & Lifestyle",
	"Business & Career",
	"Finance & Money",
	"Technology & Innovation",
	"Education & Learning",
	"Health & Wellness",
	"Travel & Culture",
	"Food & Drink",
	"Home & Living",
	"Art & Creativity",
	"Fashion & Beauty",
	"Entertainment & Pop Culture",
	"Sports & Fitness",
	"Politics & Society",
	"Science & Nature",
	"Philosophy & Spirituality",
	"DIY & How-To",
	"Family & Relationships",
	"Opinions & Commentary",
	"Hobbies & Niche Interests",
}

var categorySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		m[c] = struct{}{}
	}
	return m
}()

// ValidCategory 判断分类是否在固定集合内
func ValidCategory(c string) bool {
	_, ok := categorySet[c]
	return ok
}
