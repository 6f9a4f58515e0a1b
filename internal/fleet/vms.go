package fleet

import (
	"context"

	"farmview-proxy/internal/apiclient"
	"farmview-proxy/internal/model"
)

const (
	vmsList     = "/api/vms/get_vms"
	vmsOverview = "/api/vms/overview"
)

func vmPath(id int) string { return "/api/vms/" + itoa(id) }

// VM is a virtual machine hosted on a server.
type VM struct {
	VMID                int    `json:"vm_id"`
	ServerID            int    `json:"server_id"`
	VMName              string `json:"vm_name"`
	VMUUID              string `json:"vm_uuid,omitempty"`
	Description         string `json:"description,omitempty"`
	HypervisorType      string `json:"hypervisor_type,omitempty"`
	GuestOSFamily       string `json:"guest_os_family,omitempty"`
	GuestOSVersion      string `json:"guest_os_version,omitempty"`
	VCPUCount           int    `json:"vcpu_count,omitempty"`
	MemoryMB            int    `json:"memory_mb,omitempty"`
	StorageGB           int    `json:"storage_gb,omitempty"`
	VMState             string `json:"vm_state,omitempty"`
	VMStatus            string `json:"vm_status,omitempty"`
	AutoBackupEnabled   bool   `json:"auto_backup_enabled,omitempty"`
	BackupRetentionDays int    `json:"backup_retention_days,omitempty"`
	LastBackupAt        string `json:"last_backup_at,omitempty"`
	CreatedAt           string `json:"created_at,omitempty"`
	UpdatedAt           string `json:"updated_at,omitempty"`
	ManagedBy           string `json:"managed_by,omitempty"`
}

// VMs reads and manages virtual machines.
type VMs struct {
	c *apiclient.Client
}

// List returns every VM.
func (v *VMs) List(ctx context.Context) []VM {
	return fetchData(ctx, v.c, vmsList, []VM{}, "Failed to fetch VMs")
}

// Get returns one VM, or nil when id is not numeric or the call fails.
func (v *VMs) Get(ctx context.Context, id string) *VM {
	return apiclient.GetEntityByID[VM](ctx, v.c, vmPath, id, "VM")
}

// ByServer returns the VMs hosted on a server.
func (v *VMs) ByServer(ctx context.Context, serverID int) []VM {
	return fetchData(ctx, v.c, "/api/vms/server/"+itoa(serverID), []VM{}, "Failed to fetch VMs for server")
}

// Overview returns fleet-wide VM statistics.
func (v *VMs) Overview(ctx context.Context) Overview {
	return fetchData(ctx, v.c, vmsOverview, Overview{}, "Failed to fetch VM overview")
}

// Update applies changes to a VM.
func (v *VMs) Update(ctx context.Context, id int, changes map[string]any) *model.Envelope[VM] {
	return update[VM](ctx, v.c, vmPath(id), changes, "Failed to update VM")
}

// Page returns one page of VMs.
func (v *VMs) Page(ctx context.Context, req apiclient.PageRequest) model.Page[VM] {
	return apiclient.Paginated[VM](ctx, v.c, vmsList, req, "VMs")
}
