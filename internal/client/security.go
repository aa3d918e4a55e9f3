package client

import (
	"context"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Security Center endpoints predate the profiles and pin their versions.
const (
	autoProvisioningAPIVersion = "2017-08-01-preview"
	securityPoliciesAPIVersion = "2015-06-01-Preview"
)

// SecurityCenterAutoProvisioningSettings lists the auto provisioning
// settings of the subscription.
func (m *Management) SecurityCenterAutoProvisioningSettings(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "auto provisioning settings",
		m.link("", "Microsoft.Security/autoProvisioningSettings"),
		autoProvisioningAPIVersion, nil)
}

// SecurityCenterDefaultPolicy gets the built in Security Center policy
// assignment.
func (m *Management) SecurityCenterDefaultPolicy(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "security center default policy",
		m.link("", "Microsoft.Authorization/policyAssignments/SecurityCenterBuiltIn"),
		m.version("Microsoft.Authorization", "policyAssignments"), nil)
}

// SecurityCenterPolicy gets one Security Center policy.
func (m *Management) SecurityCenterPolicy(ctx context.Context, name string) ([]*azrm.Record, error) {
	if err := checkArgs("name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "security center policy",
		m.link("", "Microsoft.Security/policies")+name,
		securityPoliciesAPIVersion, nil)
}

// SecurityCenterPolicies lists the Security Center policies.
func (m *Management) SecurityCenterPolicies(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "security center policies",
		m.link("", "Microsoft.Security/policies"),
		securityPoliciesAPIVersion, nil)
}
