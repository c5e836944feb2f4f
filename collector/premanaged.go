package collector

import (
	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/policy"
)

// premanage applies a DependencyManager's overrides to dep in the fixed
// order version, properties, scope, optional, exclusions - each
// application sets its bit in the returned ManagedBits. The original
// version/scope/optional are only returned (in PremanagedData) when the
// corresponding field was actually overridden; the caller attaches them
// to the node iff the session runs with VerbosePremanaged.
func premanage(mgr policy.Manager, dep artifact.Dependency, disableVersionManagement bool) (artifact.Dependency, artifact.ManagedBits, PremanagedData) {
	if mgr == nil {
		return dep, 0, PremanagedData{}
	}

	mgmt := mgr.ManageDependency(dep)
	if mgmt == nil {
		return dep, 0, PremanagedData{}
	}

	managed := dep
	var bits artifact.ManagedBits
	var original PremanagedData

	if mgmt.Version != nil && !disableVersionManagement {
		original.OriginalVersion = managed.Artifact.Version
		managed.Artifact = managed.Artifact.WithVersion(*mgmt.Version)
		bits |= artifact.ManagedVersion
	}
	if mgmt.Properties != nil {
		managed.Artifact = managed.Artifact.WithProperties(mgmt.Properties)
		bits |= artifact.ManagedProperties
	}
	if mgmt.Scope != nil {
		original.OriginalScope = managed.Scope
		managed = managed.WithScope(*mgmt.Scope)
		bits |= artifact.ManagedScope
	}
	if mgmt.Optional != nil {
		original.OriginalOptional = managed.Optional
		managed = managed.WithOptional(*mgmt.Optional)
		bits |= artifact.ManagedOptional
	}
	if mgmt.Exclusions != nil {
		managed = managed.MergeExclusions(mgmt.Exclusions)
		bits |= artifact.ManagedExclusions
	}

	return managed, bits, original
}
