package catalog

// seedStatus is the compact form the predefined set is declared in.
type seedStatus struct {
	id, code, display, category, color string
}

// predefined is the fixed clinical seed set. Identifiers are stable contract:
// history entries reference them by string, so entries here are never renamed
// or removed, only extended.
var predefined = []seedStatus{
	// Healthy / normal states
	{"normal", "NORM", "Normal", CategoryHealthy, "#00FF00"},
	{"healthy", "HLTH", "Healthy", CategoryHealthy, "#32CD32"},
	{"sound", "SOND", "Sound", CategoryHealthy, "#90EE90"},

	// Decay / caries
	{"initial_caries", "IC", "Initial Caries", CategoryDecay, "#FFD700"},
	{"superficial_caries", "SC", "Superficial Caries", CategoryDecay, "#FFA500"},
	{"moderate_caries", "MC", "Moderate Caries", CategoryDecay, "#FF8C00"},
	{"deep_caries", "DC", "Deep Caries", CategoryDecay, "#FF4500"},
	{"extensive_caries", "EC", "Extensive Caries", CategoryDecay, "#DC143C"},
	{"rampant_caries", "RC", "Rampant Caries", CategoryDecay, "#8B0000"},

	// Restorations
	{"amalgam_filling", "AF", "Amalgam Filling", CategoryRestoration, "#708090"},
	{"composite_filling", "CF", "Composite Filling", CategoryRestoration, "#F5F5DC"},
	{"gold_filling", "GF", "Gold Filling", CategoryRestoration, "#FFD700"},
	{"ceramic_filling", "CERF", "Ceramic Filling", CategoryRestoration, "#FFFAF0"},
	{"temporary_filling", "TF", "Temporary Filling", CategoryRestoration, "#DDA0DD"},
	{"defective_restoration", "DR", "Defective Restoration", CategoryRestoration, "#CD853F"},

	// Crowns / caps
	{"porcelain_crown", "PC", "Porcelain Crown", CategoryProsthetic, "#E6E6FA"},
	{"metal_crown", "MCR", "Metal Crown", CategoryProsthetic, "#C0C0C0"},
	{"porcelain_fused_metal", "PFM", "Porcelain Fused to Metal", CategoryProsthetic, "#D3D3D3"},
	{"gold_crown", "GC", "Gold Crown", CategoryProsthetic, "#DAA520"},
	{"zirconia_crown", "ZC", "Zirconia Crown", CategoryProsthetic, "#F8F8FF"},

	// Endodontic treatment
	{"root_canal_treatment", "RCT", "Root Canal Treatment", CategoryEndodontic, "#FF69B4"},
	{"pulp_cap", "PCAP", "Pulp Cap", CategoryEndodontic, "#FFB6C1"},
	{"pulpotomy", "PULP", "Pulpotomy", CategoryEndodontic, "#FFC0CB"},
	{"apexification", "APEX", "Apexification", CategoryEndodontic, "#FFCCCB"},

	// Periodontal conditions
	{"gingivitis", "GING", "Gingivitis", CategoryPeriodontal, "#FF6347"},
	{"periodontitis", "PERIO", "Periodontitis", CategoryPeriodontal, "#B22222"},
	{"pocket_formation", "POCK", "Pocket Formation", CategoryPeriodontal, "#CD5C5C"},
	{"gum_recession", "GR", "Gum Recession", CategoryPeriodontal, "#F08080"},
	{"bone_loss", "BL", "Bone Loss", CategoryPeriodontal, "#8B0000"},

	// Extractions / missing
	{"extracted", "EXT", "Extracted", CategoryMissing, "#000000"},
	{"missing", "MISS", "Missing", CategoryMissing, "#2F2F2F"},
	{"congenitally_missing", "CM", "Congenitally Missing", CategoryMissing, "#696969"},
	{"impacted", "IMP", "Impacted", CategoryMissing, "#A9A9A9"},
	{"unerupted", "UNER", "Unerupted", CategoryMissing, "#808080"},

	// Prosthetic replacements
	{"implant", "IMPL", "Implant", CategoryProsthetic, "#4169E1"},
	{"bridge_abutment", "BA", "Bridge Abutment", CategoryProsthetic, "#6495ED"},
	{"bridge_pontic", "BP", "Bridge Pontic", CategoryProsthetic, "#87CEEB"},
	{"partial_denture", "PD", "Partial Denture", CategoryProsthetic, "#87CEFA"},
	{"full_denture", "FD", "Full Denture", CategoryProsthetic, "#B0E0E6"},

	// Orthodontic
	{"orthodontic_bracket", "OB", "Orthodontic Bracket", CategoryOrthodontic, "#9370DB"},
	{"space_maintainer", "SM", "Space Maintainer", CategoryOrthodontic, "#DDA0DD"},
	{"retainer", "RET", "Retainer", CategoryOrthodontic, "#EE82EE"},

	// Trauma / fractures
	{"fracture", "FRAC", "Fracture", CategoryTrauma, "#FF0000"},
	{"luxation", "LUX", "Luxation", CategoryTrauma, "#DC143C"},
	{"avulsion", "AVUL", "Avulsion", CategoryTrauma, "#B22222"},

	// Developmental anomalies
	{"supernumerary", "SUPER", "Supernumerary", CategoryAnomaly, "#FF1493"},
	{"malformed", "MAL", "Malformed", CategoryAnomaly, "#DB7093"},
	{"enamel_defect", "ED", "Enamel Defect", CategoryAnomaly, "#C71585"},

	// Treatment planned
	{"treatment_planned", "TP", "Treatment Planned", CategoryPlanned, "#00CED1"},
	{"needs_evaluation", "NE", "Needs Evaluation", CategoryPlanned, "#48D1CC"},
	{"observation", "OBS", "Under Observation", CategoryPlanned, "#40E0D0"},

	// Other conditions
	{"sensitive", "SENS", "Sensitive", CategoryOther, "#FFFF00"},
	{"wear", "WEAR", "Wear/Attrition", CategoryOther, "#BDB76B"},
	{"stain", "STAIN", "Stain/Discoloration", CategoryOther, "#D2691E"},
}

// PredefinedStatuses returns the seed set as full Status values, sort order
// following declaration order.
func PredefinedStatuses() []*Status {
	out := make([]*Status, 0, len(predefined))
	for i, s := range predefined {
		out = append(out, &Status{
			ID:        s.id,
			Code:      s.code,
			Display:   s.display,
			Category:  s.category,
			Color:     s.color,
			Active:    true,
			SortOrder: i,
		})
	}
	return out
}
