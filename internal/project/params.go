package project

// Document keys for the known substructures.
const (
	KeyReservoir = "reservoir"
	KeyPVT       = "pvt"
	KeyFitting   = "fitting"
)

// Scalar keys inside the reservoir and pvt substructures.
const (
	keyPorosity        = "porosity"
	keyThickness       = "thickness"
	keyWellRadius      = "wellRadius"
	keyProductionRate  = "productionRate"
	keyViscosity       = "viscosity"
	keyVolumeFactor    = "volumeFactor"
	keyCompressibility = "compressibility"
)

// ParameterSet is the seven scalar physical inputs of the reservoir model.
// Values are not range-checked.
type ParameterSet struct {
	Porosity        float64 `json:"porosity" yaml:"porosity"`               // φ
	Thickness       float64 `json:"thickness" yaml:"thickness"`             // h
	Viscosity       float64 `json:"viscosity" yaml:"viscosity"`             // μ
	VolumeFactor    float64 `json:"volumeFactor" yaml:"volumeFactor"`       // B
	Compressibility float64 `json:"compressibility" yaml:"compressibility"` // Ct
	ProductionRate  float64 `json:"productionRate" yaml:"productionRate"`   // q
	WellRadius      float64 `json:"wellRadius" yaml:"wellRadius"`           // rw
}

// DefaultParameters returns the values a State reports before any project is
// set or loaded. Load also falls back to them field by field.
func DefaultParameters() ParameterSet {
	return ParameterSet{
		Porosity:        0.05,
		Thickness:       20.0,
		Viscosity:       0.5,
		VolumeFactor:    1.05,
		Compressibility: 5e-4,
		ProductionRate:  50.0,
		WellRadius:      0.1,
	}
}

// reservoirBlock builds the reservoir substructure from p.
func (p ParameterSet) reservoirBlock() map[string]any {
	return map[string]any{
		keyPorosity:       p.Porosity,
		keyThickness:      p.Thickness,
		keyWellRadius:     p.WellRadius,
		keyProductionRate: p.ProductionRate,
	}
}

// pvtBlock builds the pvt substructure from p.
func (p ParameterSet) pvtBlock() map[string]any {
	return map[string]any{
		keyViscosity:       p.Viscosity,
		keyVolumeFactor:    p.VolumeFactor,
		keyCompressibility: p.Compressibility,
	}
}

// parametersFrom reads the seven scalars out of a document. Missing or
// non-numeric values fall back to the defaults.
func parametersFrom(doc Document) ParameterSet {
	def := DefaultParameters()
	reservoir := doc.Object(KeyReservoir)
	pvt := doc.Object(KeyPVT)

	return ParameterSet{
		ProductionRate:  numberOr(reservoir, keyProductionRate, def.ProductionRate),
		Porosity:        numberOr(reservoir, keyPorosity, def.Porosity),
		Thickness:       numberOr(reservoir, keyThickness, def.Thickness),
		WellRadius:      numberOr(reservoir, keyWellRadius, def.WellRadius),
		Compressibility: numberOr(pvt, keyCompressibility, def.Compressibility),
		Viscosity:       numberOr(pvt, keyViscosity, def.Viscosity),
		VolumeFactor:    numberOr(pvt, keyVolumeFactor, def.VolumeFactor),
	}
}
