package resources

import (
	"context"
	"errors"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Static errors for err113 compliance.
var (
	ErrContainerPoliciesUnavailable = errors.New("blob container policies are not configured")
)

var storageAccountColumns = commonColumns().
	RegisterField("kinds", "kind").
	RegisterField("skus", "sku", "name").
	RegisterField("https_only", "properties", "supportsHttpsTrafficOnly").
	RegisterField("blob_endpoints", "properties", "primaryEndpoints", "blob")

// StorageAccounts lists storage accounts.
func (r *Resources) StorageAccounts(ctx context.Context, resourceGroup string) *azrm.Plural {
	records, err := r.source.StorageAccounts(ctx, resourceGroup)

	return r.plural("storage accounts", storageAccountColumns, commonPipeline, records, err)
}

// StorageAccount gets one storage account.
func (r *Resources) StorageAccount(ctx context.Context, resourceGroup, name string) *azrm.Singular {
	records, err := r.source.StorageAccount(ctx, resourceGroup, name)

	return r.singular("storage account", commonPipeline, records, err)
}

// Access policy fields every ACL row carries, null when unset.
var accessPolicyFields = []string{"permission", "expiry", "start"}

var containerACLColumns = azrm.NewColumnRegistry().
	RegisterAlias("names", "ids").
	RegisterField("ids", "id").
	RegisterField("permissions", "permission").
	RegisterField("start_times", "start").
	RegisterField("expiration_times", "expiry")

// ContainerACLs are the stored access policies of one blob container.
type ContainerACLs struct {
	*azrm.Plural

	name string
}

// Name returns the container name.
func (c *ContainerACLs) Name() string {
	return c.name
}

// Exists reports whether the container's policies could be read. A
// container without stored policies exists with an empty table.
func (c *ContainerACLs) Exists() (bool, error) {
	if err := c.Err(); err != nil {
		return false, err
	}

	return true, nil
}

// BlobContainerAcls reads the stored access policies of a blob container.
// Each row is the policy's fields merged with the identifier, with
// permission, expiry and start always present.
func (r *Resources) BlobContainerAcls(ctx context.Context, resourceGroup, account, container string) *ContainerACLs {
	if r.policies == nil {
		return &ContainerACLs{
			Plural: azrm.NewPlural(containerACLColumns, nil, ErrContainerPoliciesUnavailable),
			name:   container,
		}
	}

	records, err := r.policies.ContainerPolicies(ctx, resourceGroup, account, container)
	if err != nil {
		r.logger.Debug("resource query failed", map[string]interface{}{
			"resource": "blob container acls",
			"error":    err.Error(),
		})

		return &ContainerACLs{Plural: azrm.NewPlural(containerACLColumns, nil, err), name: container}
	}

	rows := azrm.Expand(records, []string{"access_policy", "AccessPolicy"}, accessPolicyFields)

	return &ContainerACLs{Plural: azrm.NewPlural(containerACLColumns, rows, nil), name: container}
}
