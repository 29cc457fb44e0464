package analysis

// VEDCategory is the Vital/Essential/Desirable criticality class derived
// from the remaining quantity.
type VEDCategory string

const (
	CategoryVital     VEDCategory = "V"
	CategoryEssential VEDCategory = "E"
	CategoryDesirable VEDCategory = "D"
)

// VED thresholds on quantity.
const (
	vitalMaxQuantity     = 2
	essentialMaxQuantity = 10
)

// ClassifyVED maps a quantity to its VED category. Negative input is
// treated as zero. The derived category is a cached projection of the
// quantity and must be recomputed on every quantity write.
func ClassifyVED(quantity int) VEDCategory {
	if quantity < 0 {
		quantity = 0
	}
	switch {
	case quantity <= vitalMaxQuantity:
		return CategoryVital
	case quantity <= essentialMaxQuantity:
		return CategoryEssential
	default:
		return CategoryDesirable
	}
}
