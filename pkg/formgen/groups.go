package formgen

import (
	"github.com/goliatone/go-formdescriptor/pkg/descriptor"
	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

// Names of the groups synthesized around audit controls.
const (
	GroupDetail = "Detail"
	GroupAudit  = "Audit"
)

// initGroups copies the class-level groups of model in declaration order.
func initGroups(model *schema.Model) []descriptor.FormGroupDescriptor {
	if model == nil || len(model.Groups) == 0 {
		return nil
	}
	groups := make([]descriptor.FormGroupDescriptor, 0, len(model.Groups))
	for _, group := range model.Groups {
		groups = append(groups, descriptor.FormGroupDescriptor{
			Name: group.Name,
			IDs:  append([]string{}, group.Properties...),
		})
	}
	return groups
}

// mergeGroups applies the audit group rule: with audit keys present a Detail
// group listing every non-audit control is synthesized when no group exists,
// and Audit is appended last. Without audit keys groups are returned as is.
func mergeGroups(groups []descriptor.FormGroupDescriptor, controls []descriptor.FormControlDescriptor, auditKeys []string) []descriptor.FormGroupDescriptor {
	if len(auditKeys) == 0 {
		return groups
	}
	if len(groups) == 0 {
		audit := make(map[string]struct{}, len(auditKeys))
		for _, key := range auditKeys {
			audit[key] = struct{}{}
		}
		detail := make([]string, 0, len(controls))
		for _, control := range controls {
			if _, ok := audit[control.Name]; ok {
				continue
			}
			detail = append(detail, control.Name)
		}
		groups = append(groups, descriptor.FormGroupDescriptor{Name: GroupDetail, IDs: detail})
	}
	return append(groups, descriptor.FormGroupDescriptor{
		Name: GroupAudit,
		IDs:  append([]string(nil), auditKeys...),
	})
}
