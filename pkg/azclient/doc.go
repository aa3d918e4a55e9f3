// Package azclient provides the primary entry point for constructing an
// Azure Resource Manager query client.
//
// It layers configuration, HTTP transport, authentication, API version
// profiles and the response cache on top of the resource views of the
// resources package. Most applications build a client here, then query
// resources through it:
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/azrm/pkg/azclient"
//	  "github.com/fivetwenty-io/azrm/pkg/azrm"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Credentials come from the default Azure credential chain
//	  // (environment, workload identity, managed identity, Azure CLI).
//	  cli, err := azclient.New(ctx, &azrm.Config{SubscriptionID: "0000-..."})
//	  if err != nil { log.Fatal(err) }
//
//	  vms := cli.VirtualMachines(ctx, "prod")
//	  windows, err := vms.Where(azrm.Eq("platforms", "windows"))
//	  if err != nil { log.Fatal(err) }
//
//	  names, _ := windows.Column("vm_names")
//	  log.Println(names)
//	}
//
// # Authentication
//
// Config.AccessToken is used as is. Config.ClientID and
// Config.ClientSecret select the client credentials grant, against the
// cloud's Entra ID tenant (Config.TenantID) or an explicit Config.TokenURL.
// Without either, the default credential chain is used.
//
// # API versions
//
// Every endpoint resolves its api-version through the active profile:
// Config.Profile, else the AZURE_REST_API_PROFILE environment variable,
// else "latest". Pairs missing from a hybrid profile fall back to latest.
package azclient
