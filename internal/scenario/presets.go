package scenario

import "sort"

// Preset is one named clinical scenario: initial-concentration overrides
// plus drug-action parameters.
type Preset struct {
	Name        string
	Description string

	// Modifications override the physiological initial concentrations.
	Modifications map[Species]float64

	Params Params
}

// presets builds the scenario table against a set of baseline
// concentrations, so factor reductions stay proportional if the baseline
// changes.
func presets() map[string]Preset {
	base := InitialConcentrations()
	scale := func(sp Species, f float64) float64 { return base[sp] * f }

	return map[string]Preset{
		"normal": {
			Name:        "normal",
			Description: "Normal coagulation",
			Params:      DefaultParams(),
		},
		"hemophilia_a": {
			Name:        "hemophilia_a",
			Description: "Hemophilia A, factor VIII absent",
			Modifications: map[Species]float64{
				SpeciesVIII: 0,
			},
			Params: DefaultParams(),
		},
		"hemophilia_b": {
			Name:        "hemophilia_b",
			Description: "Hemophilia B, factor IX absent",
			Modifications: map[Species]float64{
				SpeciesIX: 0,
			},
			Params: DefaultParams(),
		},
		"warfarin": {
			Name:        "warfarin",
			Description: "Vitamin K antagonist, K-dependent factors at 30%",
			Modifications: map[Species]float64{
				SpeciesII:  scale(SpeciesII, 0.3),
				SpeciesVII: scale(SpeciesVII, 0.3),
				SpeciesIX:  scale(SpeciesIX, 0.3),
				SpeciesX:   scale(SpeciesX, 0.3),
				SpeciesPC:  scale(SpeciesPC, 0.3),
			},
			Params: DefaultParams(),
		},
		"heparin_ufh": {
			Name:        "heparin_ufh",
			Description: "Unfractionated heparin, antithrombin potentiated 100x",
			Params:      Params{ATFactor: 100, XaInhibition: 1, IIaInhibition: 1},
		},
		"heparin_lmwh": {
			Name:        "heparin_lmwh",
			Description: "Low molecular weight heparin, anti-Xa predominant",
			Params:      Params{ATFactor: 30, XaInhibition: 0.2, IIaInhibition: 1},
		},
		"rivaroxaban": {
			Name:        "rivaroxaban",
			Description: "Direct Xa inhibitor, 95% inhibition",
			Params:      Params{ATFactor: 1, XaInhibition: 0.05, IIaInhibition: 1},
		},
		"apixaban": {
			Name:        "apixaban",
			Description: "Direct Xa inhibitor, 92% inhibition",
			Params:      Params{ATFactor: 1, XaInhibition: 0.08, IIaInhibition: 1},
		},
		"dabigatran": {
			Name:        "dabigatran",
			Description: "Direct thrombin inhibitor, 95% inhibition",
			Params:      Params{ATFactor: 1, XaInhibition: 1, IIaInhibition: 0.05},
		},
		"fviii_concentrate": {
			Name:        "fviii_concentrate",
			Description: "Hemophilia A after FVIII concentrate, normal level restored",
			Modifications: map[Species]float64{
				SpeciesVIII: base[SpeciesVIII],
			},
			Params: DefaultParams(),
		},
		"fix_concentrate": {
			Name:        "fix_concentrate",
			Description: "Hemophilia B after FIX concentrate, normal level restored",
			Modifications: map[Species]float64{
				SpeciesIX: base[SpeciesIX],
			},
			Params: DefaultParams(),
		},
		"pcc": {
			Name:        "pcc",
			Description: "Prothrombin complex concentrate, II/VII/IX/X elevated",
			Modifications: map[Species]float64{
				SpeciesII:  scale(SpeciesII, 1.5),
				SpeciesVII: scale(SpeciesVII, 2.0),
				SpeciesIX:  scale(SpeciesIX, 1.5),
				SpeciesX:   scale(SpeciesX, 1.5),
			},
			Params: DefaultParams(),
		},
		"ffp": {
			Name:        "ffp",
			Description: "Fresh frozen plasma, all factors moderately raised",
			Modifications: map[Species]float64{
				SpeciesII:   scale(SpeciesII, 1.2),
				SpeciesV:    scale(SpeciesV, 1.2),
				SpeciesVII:  scale(SpeciesVII, 1.2),
				SpeciesVIII: scale(SpeciesVIII, 1.2),
				SpeciesIX:   scale(SpeciesIX, 1.2),
				SpeciesX:    scale(SpeciesX, 1.2),
				SpeciesXI:   scale(SpeciesXI, 1.2),
				SpeciesFbg:  scale(SpeciesFbg, 1.2),
			},
			Params: DefaultParams(),
		},
		"dic": {
			Name:        "dic",
			Description: "Disseminated intravascular coagulation, massive factor consumption",
			Modifications: map[Species]float64{
				SpeciesII:   scale(SpeciesII, 0.3),
				SpeciesV:    scale(SpeciesV, 0.2),
				SpeciesVIII: scale(SpeciesVIII, 0.2),
				SpeciesFbg:  scale(SpeciesFbg, 0.2),
				SpeciesAT:   scale(SpeciesAT, 0.3),
			},
			Params: DefaultParams(),
		},
		"liver_disease": {
			Name:        "liver_disease",
			Description: "Hepatic failure, reduced synthesis of most factors",
			Modifications: map[Species]float64{
				SpeciesII:  scale(SpeciesII, 0.4),
				SpeciesVII: scale(SpeciesVII, 0.4),
				SpeciesIX:  scale(SpeciesIX, 0.4),
				SpeciesX:   scale(SpeciesX, 0.4),
				SpeciesXI:  scale(SpeciesXI, 0.4),
				SpeciesAT:  scale(SpeciesAT, 0.4),
				SpeciesPC:  scale(SpeciesPC, 0.4),
				SpeciesV:   scale(SpeciesV, 0.5),
				SpeciesFbg: scale(SpeciesFbg, 0.6),
			},
			Params: DefaultParams(),
		},
		"vwd_type1": {
			Name:        "vwd_type1",
			Description: "von Willebrand disease type 1, FVIII reduced secondarily",
			Modifications: map[Species]float64{
				SpeciesVIII: scale(SpeciesVIII, 0.3),
			},
			Params: DefaultParams(),
		},
	}
}

// Lookup resolves a scenario name. "heparin" aliases "heparin_ufh".
func Lookup(name string) (Preset, bool) {
	if name == "heparin" {
		name = "heparin_ufh"
	}
	p, ok := presets()[name]
	return p, ok
}

// Names returns every scenario name in sorted order.
func Names() []string {
	table := presets()
	out := make([]string, 0, len(table))
	for name := range table {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
