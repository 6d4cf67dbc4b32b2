package dataset

import "strings"

// A normalizer maps one raw JSON record to entity fields. The second return
// is false when the record misses required fields and must be skipped.
type normalizer func(map[string]any) (map[string]any, bool)

var normalizers = map[string]normalizer{
	CategoryMolecules: normalizeMolecule,
	CategoryParticles: normalizeParticle,
	CategoryHadrons:   normalizeHadron,
	CategoryElements:  normalizeElement,
	CategoryAlloys:    normalizeAlloy,
}

func copyRecord(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw)+12)
	for k, v := range raw {
		out[k] = v
	}
	return out
}

func num(raw map[string]any, key string, def float64) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func str(raw map[string]any, key, def string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return def
}

// normalizeMolecule requires name, formula, mass, bond type and geometry,
// then adds the lower-case aliases the strategies read.
func normalizeMolecule(raw map[string]any) (map[string]any, bool) {
	for _, required := range []string{"Name", "Formula", "MolecularMass_amu", "BondType", "Geometry"} {
		if _, ok := raw[required]; !ok {
			return nil, false
		}
	}

	f := copyRecord(raw)
	f["mass"] = num(raw, "MolecularMass_amu", 0)
	f["bond_type"] = str(raw, "BondType", "Unknown")
	f["geometry"] = str(raw, "Geometry", "Unknown")
	f["polarity"] = str(raw, "Polarity", "Unknown")
	f["category"] = str(raw, "Category", "Unknown")
	f["state"] = str(raw, "State_STP", "Unknown")
	f["melting_point"] = num(raw, "MeltingPoint_K", 0)
	f["boiling_point"] = num(raw, "BoilingPoint_K", 0)
	f["density"] = num(raw, "Density_g_cm3", 0)
	f["dipole_moment"] = num(raw, "DipoleMoment_D", 0)
	f["bond_angle"] = num(raw, "BondAngle_deg", 0)
	f["color"] = str(raw, "Color", "#4FC3F7")
	return f, true
}

// normalizeParticle keeps the Standard Model fields under their published
// names and fills the aliases for type and generation.
func normalizeParticle(raw map[string]any) (map[string]any, bool) {
	if _, ok := raw["Name"]; !ok {
		return nil, false
	}

	f := copyRecord(raw)
	if _, ok := f["particle_type"]; !ok {
		f["particle_type"] = strings.ToLower(str(raw, "Type", "unknown"))
	}
	if _, ok := f["generation_num"]; !ok {
		f["generation_num"] = num(raw, "Generation", 0)
	}
	if _, ok := f["Mass_MeVc2"]; !ok {
		f["Mass_MeVc2"] = 0.0
	}
	return f, true
}

// normalizeHadron derives the baryon and meson flags from the classification
// string, the way the decay and quark-content views group them.
func normalizeHadron(raw map[string]any) (map[string]any, bool) {
	if _, ok := raw["Name"]; !ok {
		return nil, false
	}

	f := copyRecord(raw)
	classification := str(raw, "Classification", "")
	f["is_baryon"] = strings.Contains(classification, "Baryon")
	f["is_meson"] = strings.Contains(classification, "Meson")
	if _, ok := f["mass"]; !ok {
		f["mass"] = num(raw, "Mass_MeVc2", 0)
	}
	return f, true
}

func normalizeElement(raw map[string]any) (map[string]any, bool) {
	if _, ok := raw["Name"]; !ok {
		return nil, false
	}

	f := copyRecord(raw)
	f["mass"] = num(raw, "AtomicMass_amu", 0)
	f["category"] = str(raw, "Category", "Unknown")
	f["state"] = str(raw, "State_STP", "Unknown")
	f["melting_point"] = num(raw, "MeltingPoint_K", 0)
	f["boiling_point"] = num(raw, "BoilingPoint_K", 0)
	f["density"] = num(raw, "Density_g_cm3", 0)
	return f, true
}

// normalizeAlloy flattens the nested physical-property block.
func normalizeAlloy(raw map[string]any) (map[string]any, bool) {
	if _, ok := raw["Name"]; !ok {
		return nil, false
	}

	f := copyRecord(raw)
	f["category"] = str(raw, "Category", "Other")

	phys, _ := raw["PhysicalProperties"].(map[string]any)
	f["density"] = num(phys, "Density_g_cm3", 0)
	f["melting_point"] = num(phys, "MeltingPoint_K", 0)
	f["thermal_conductivity"] = num(phys, "ThermalConductivity_W_mK", 0)
	f["electrical_resistivity"] = num(phys, "ElectricalResistivity_Ohm_m", 0)
	f["youngs_modulus"] = num(phys, "YoungsModulus_GPa", 0)
	f["hardness"] = num(phys, "BrinellHardness_HB", 0)
	if _, ok := f["mass"]; !ok {
		f["mass"] = f["density"]
	}
	return f, true
}
