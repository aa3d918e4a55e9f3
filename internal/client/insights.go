package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// ActivityLogAlert gets one activity log alert.
func (m *Management) ActivityLogAlert(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "activity log alert",
		m.link(resourceGroup, "Microsoft.Insights/activityLogAlerts")+name,
		m.version("Microsoft.Insights", "activityLogAlerts"), nil)
}

// ActivityLogAlerts lists the activity log alerts of the subscription.
func (m *Management) ActivityLogAlerts(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "activity log alerts",
		m.link("", "Microsoft.Insights/activityLogAlerts"),
		m.version("Microsoft.Insights", "activityLogAlerts"), nil)
}

// ActivityLogEvents lists management events matching an OData filter.
func (m *Management) ActivityLogEvents(ctx context.Context, filter string) ([]*azrm.Record, error) {
	var params url.Values
	if filter != "" {
		params = url.Values{"$filter": {filter}}
	}

	return m.get(ctx, "activity log events",
		m.link("", "Microsoft.Insights/eventTypes/management/values"),
		m.version("Microsoft.Insights", "activityLogAlerts"), params)
}

// LogProfile gets one log profile.
func (m *Management) LogProfile(ctx context.Context, name string) ([]*azrm.Record, error) {
	if err := checkArgs("name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "log profile",
		m.link("", "Microsoft.Insights/logProfiles")+name,
		m.version("Microsoft.Insights", "logProfiles"), nil)
}

// LogProfiles lists the log profiles of the subscription.
func (m *Management) LogProfiles(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "log profiles",
		m.link("", "Microsoft.Insights/logProfiles"),
		m.version("Microsoft.Insights", "logProfiles"), nil)
}

// DiagnosticSettings lists the diagnostic settings of any resource, given
// its full resource id.
func (m *Management) DiagnosticSettings(ctx context.Context, resourceID string) ([]*azrm.Record, error) {
	if err := checkArgs("resource id", resourceID); err != nil {
		return nil, err
	}

	return m.get(ctx, "diagnostic settings",
		strings.TrimRight(resourceID, "/")+"/providers/microsoft.insights/diagnosticSettings",
		m.version("Microsoft.Insights", "diagnosticSettings"), nil)
}
