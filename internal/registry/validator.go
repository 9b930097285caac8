package registry

// requiredRoles lists, per input type, the roles every sample must carry.
var requiredRoles = []struct {
	inputType InputType
	roles     []Role
}{
	{InputFastq, []Role{RoleR1, RoleR2}},
	{InputFasta, []Role{RoleAssembly}},
	{InputVcf, []Role{RoleVcf}},
	{InputBam, []Role{RoleBam}},
}

// Validate checks that every sample in reg carries the full set of files the
// requested input types require. An empty registry is never valid. All
// missing-role violations are collected across all samples and roles before
// failing, so one failure report covers everything that needs fixing.
func Validate(reg *Registry, types InputTypeSet) error {
	if reg.Len() == 0 {
		return &EmptyRegistryError{InputDir: reg.InputDir, MinLines: reg.MinLines}
	}

	var violations []RoleViolation
	for _, group := range requiredRoles {
		if !types[group.inputType] {
			continue
		}
		for _, sample := range reg.Samples() {
			for _, role := range group.roles {
				if !sample.Has(role) {
					violations = append(violations, RoleViolation{Sample: sample.Name, Role: role})
				}
			}
		}
	}

	if len(violations) > 0 {
		return &IncompleteSampleError{Violations: violations}
	}
	return nil
}
