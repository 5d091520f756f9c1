package services

import (
	"strings"

	"github.com/livingrent/storefront-service/internal/models"
)

// categoryKeywords maps canonical categories to the free-text terms found
// in supplier spreadsheets. Groups are evaluated top to bottom; the first
// keyword hit wins, so more specific families come before generic ones.
var categoryKeywords = []struct {
	id       models.CategoryID
	keywords []string
}{
	{models.CategoryRefrigerator, []string{"냉장고", "김치냉장고", "refrigerator", "fridge"}},
	{models.CategoryWasher, []string{"세탁기", "건조기", "워시타워", "washer", "dryer", "washing"}},
	{models.CategoryAirConditioner, []string{"에어컨", "냉난방기", "air conditioner", "aircon", "air-con"}},
	{models.CategoryTV, []string{"티비", "텔레비전", "tv", "television"}},
	{models.CategoryMicrowave, []string{"전자레인지", "전자렌지", "microwave"}},
	{models.CategoryRobotVacuum, []string{"로봇청소기", "청소기", "robot vacuum", "vacuum"}},
	{models.CategoryWaterPurifier, []string{"정수기", "water purifier", "purifier"}},
}

// NormalizeCategory maps free-text category wording (a resolver guess or a
// category-transformer cell) to a canonical identifier. Pure and total:
// every input yields exactly one identifier. Text matching no keyword
// group lands in CategoryUncategorized, which the review workflow treats
// as "operator must decide" rather than silently bucketing the product.
func NormalizeCategory(text string) models.CategoryID {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return models.CategoryUncategorized
	}

	for _, group := range categoryKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(normalized, keyword) {
				return group.id
			}
		}
	}

	return models.CategoryUncategorized
}
