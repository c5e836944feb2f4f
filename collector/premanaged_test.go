package collector

import (
	"testing"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/policy"
)

func TestPremanage_NilManager(t *testing.T) {
	d := dep("com.example", "A", "1.0.0")
	managed, bits, orig := premanage(nil, d, false)
	if bits != 0 || orig != (PremanagedData{}) {
		t.Fatalf("nil manager should be a no-op, got bits=%v orig=%+v", bits, orig)
	}
	if managed.Artifact.Version != d.Artifact.Version {
		t.Error("nil manager must not alter the dependency")
	}
}

func TestPremanage_VersionScopeOptional(t *testing.T) {
	var mgr policy.Manager = policy.NewMapManager()
	mgr = mgr.DeriveChildManager(policy.Context{
		ManagedDependencies: []artifact.Dependency{
			{Artifact: artifact.New("com.example", "A", "2.0.0"), Scope: "runtime", Optional: artifact.OptionalTrue},
		},
	})

	d := dep("com.example", "A", "1.0.0")
	managed, bits, orig := premanage(mgr, d, false)

	if managed.Artifact.Version != "2.0.0" {
		t.Errorf("Version = %s, want 2.0.0", managed.Artifact.Version)
	}
	if !bits.Has(artifact.ManagedVersion) || !bits.Has(artifact.ManagedScope) || !bits.Has(artifact.ManagedOptional) {
		t.Errorf("bits = %v, want version+scope+optional set", bits)
	}
	if orig.OriginalVersion != "1.0.0" {
		t.Errorf("OriginalVersion = %s, want 1.0.0", orig.OriginalVersion)
	}
}

func TestPremanage_DisableVersionManagement(t *testing.T) {
	var mgr policy.Manager = policy.NewMapManager()
	mgr = mgr.DeriveChildManager(policy.Context{
		ManagedDependencies: []artifact.Dependency{{Artifact: artifact.New("com.example", "A", "2.0.0")}},
	})

	d := dep("com.example", "A", "1.0.0")
	managed, bits, _ := premanage(mgr, d, true)

	if managed.Artifact.Version != "1.0.0" {
		t.Errorf("Version = %s, want original 1.0.0 preserved when version management is disabled", managed.Artifact.Version)
	}
	if bits.Has(artifact.ManagedVersion) {
		t.Error("ManagedVersion bit must not be set when version management is disabled")
	}
}
