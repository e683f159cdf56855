package nutrition

type ApiResponse struct {
	Items []Item `json:"items"`
}

// Item values are given per ServingSizeG grams, 100 g unless the query
// named a quantity.
type Item struct {
	Name                string  `json:"name"`
	Calories            float64 `json:"calories"`
	ServingSizeG        float64 `json:"serving_size_g"`
	FatTotalG           float64 `json:"fat_total_g"`
	FatSaturatedG       float64 `json:"fat_saturated_g"`
	ProteinG            float64 `json:"protein_g"`
	SodiumMg            float64 `json:"sodium_mg"`
	PotassiumMg         float64 `json:"potassium_mg"`
	CholesterolMg       float64 `json:"cholesterol_mg"`
	CarbohydratesTotalG float64 `json:"carbohydrates_total_g"`
	FiberG              float64 `json:"fiber_g"`
	SugarG              float64 `json:"sugar_g"`
}

func (i Item) Facts() *Facts {
	return &Facts{
		Name:            i.Name,
		CaloriesPer100g: i.Calories,
		FatPer100g:      i.FatTotalG,
		ProteinPer100g:  i.ProteinG,
		CarbsPer100g:    i.CarbohydratesTotalG,
	}
}

type Facts struct {
	Name            string
	CaloriesPer100g float64
	FatPer100g      float64
	ProteinPer100g  float64
	CarbsPer100g    float64
}

type Portion struct {
	Calories int
	Fat      int
	Protein  int
	Carbs    int
}

// Portion scales the per 100 g values to grams, truncating each to int.
func (f Facts) Portion(grams int) Portion {
	scale := func(per100g float64) int {
		return int(per100g / 100 * float64(grams))
	}
	return Portion{
		Calories: scale(f.CaloriesPer100g),
		Fat:      scale(f.FatPer100g),
		Protein:  scale(f.ProteinPer100g),
		Carbs:    scale(f.CarbsPer100g),
	}
}
