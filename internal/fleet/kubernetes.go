package fleet

import (
	"context"
	"net/http"

	"farmview-proxy/internal/apiclient"
	"farmview-proxy/internal/model"
)

const (
	clustersList    = "/api/k8s/clusters"
	k8sServicesList = "/api/k8s/services"
	k8sInventory    = "/api/k8s/inventory"
)

func clusterPath(id int) string { return clustersList + "/" + itoa(id) }

func k8sPath(kind string) func(int) string {
	return func(id int) string { return "/api/k8s/" + kind + "/" + itoa(id) }
}

// Cluster is a Kubernetes cluster.
type Cluster struct {
	ClusterID         int    `json:"cluster_id"`
	ClusterName       string `json:"cluster_name"`
	ClusterUUID       string `json:"cluster_uuid,omitempty"`
	Description       string `json:"description,omitempty"`
	ClusterVersion    string `json:"cluster_version"`
	APIServerEndpoint string `json:"api_server_endpoint"`
	Distribution      string `json:"distribution,omitempty"`
	CNIPlugin         string `json:"cni_plugin,omitempty"`
	ContainerRuntime  string `json:"container_runtime,omitempty"`
	ClusterState      string `json:"cluster_state"`
	ClusterStatus     string `json:"cluster_status"`
	IsHAEnabled       bool   `json:"is_ha_enabled,omitempty"`
	ControlPlaneNodes int    `json:"control_plane_nodes,omitempty"`
	CreatedAt         string `json:"created_at,omitempty"`
	UpdatedAt         string `json:"updated_at,omitempty"`
}

// Node is a Kubernetes node backed by a server or a VM.
type Node struct {
	K8sNodeID        int    `json:"k8s_node_id"`
	ClusterID        int    `json:"cluster_id"`
	ServerID         int    `json:"server_id,omitempty"`
	VMID             int    `json:"vm_id,omitempty"`
	NodeName         string `json:"node_name"`
	NodeType         string `json:"node_type"`
	InternalIP       string `json:"internal_ip,omitempty"`
	Hostname         string `json:"hostname,omitempty"`
	CPUCapacity      int    `json:"cpu_capacity,omitempty"`
	MemoryCapacityMB int64  `json:"memory_capacity_mb,omitempty"`
	PodCapacity      int    `json:"pod_capacity,omitempty"`
	NodeState        string `json:"node_state"`
	IsSchedulable    bool   `json:"is_schedulable,omitempty"`
	ReadyCondition   string `json:"ready_condition,omitempty"`
	OSImage          string `json:"os_image,omitempty"`
}

// Namespace is a Kubernetes namespace.
type Namespace struct {
	NamespaceID    int    `json:"namespace_id"`
	ClusterID      int    `json:"cluster_id"`
	NamespaceName  string `json:"namespace_name"`
	Description    string `json:"description,omitempty"`
	NamespaceState string `json:"namespace_state"`
	CPULimit       string `json:"cpu_limit,omitempty"`
	MemoryLimit    string `json:"memory_limit,omitempty"`
	PodLimit       int    `json:"pod_limit,omitempty"`
}

// Workload is a deployment, stateful set, daemon set or job.
type Workload struct {
	WorkloadID        int    `json:"workload_id"`
	ClusterID         int    `json:"cluster_id"`
	NamespaceID       int    `json:"namespace_id"`
	WorkloadName      string `json:"workload_name"`
	WorkloadType      string `json:"workload_type"`
	ReplicasDesired   int    `json:"replicas_desired,omitempty"`
	ReplicasReady     int    `json:"replicas_ready,omitempty"`
	ReplicasAvailable int    `json:"replicas_available,omitempty"`
	ContainerImage    string `json:"container_image,omitempty"`
}

// Pod is a Kubernetes pod.
type Pod struct {
	PodID        int    `json:"pod_id"`
	ClusterID    int    `json:"cluster_id"`
	NamespaceID  int    `json:"namespace_id"`
	WorkloadID   int    `json:"workload_id,omitempty"`
	K8sNodeID    int    `json:"k8s_node_id,omitempty"`
	PodName      string `json:"pod_name"`
	PodIP        string `json:"pod_ip,omitempty"`
	PodPhase     string `json:"pod_phase"`
	PodState     string `json:"pod_state"`
	IsReady      bool   `json:"is_ready,omitempty"`
	RestartCount int    `json:"restart_count,omitempty"`
	QOSClass     string `json:"qos_class,omitempty"`
}

// Service is a Kubernetes service.
type Service struct {
	ServiceID   int    `json:"service_id"`
	ClusterID   int    `json:"cluster_id"`
	NamespaceID int    `json:"namespace_id"`
	ServiceName string `json:"service_name"`
	ServiceType string `json:"service_type"`
	ClusterIP   string `json:"cluster_ip,omitempty"`
}

// Event is a Kubernetes event.
type Event struct {
	EventID            int    `json:"event_id"`
	ClusterID          int    `json:"cluster_id"`
	EventType          string `json:"event_type"`
	Reason             string `json:"reason,omitempty"`
	Message            string `json:"message,omitempty"`
	InvolvedObjectKind string `json:"involved_object_kind,omitempty"`
	InvolvedObjectName string `json:"involved_object_name,omitempty"`
	EventCount         int    `json:"event_count,omitempty"`
	LastOccurrence     string `json:"last_occurrence,omitempty"`
}

// Kubernetes reads and manages clusters and their resources.
type Kubernetes struct {
	c *apiclient.Client
}

// Clusters returns every cluster.
func (k *Kubernetes) Clusters(ctx context.Context) []Cluster {
	return fetchData(ctx, k.c, clustersList, []Cluster{}, "Failed to fetch clusters")
}

// Cluster returns one cluster, or nil.
func (k *Kubernetes) Cluster(ctx context.Context, id string) *Cluster {
	return apiclient.GetEntityByID[Cluster](ctx, k.c, clusterPath, id, "cluster")
}

// UpdateCluster applies changes to a cluster.
func (k *Kubernetes) UpdateCluster(ctx context.Context, id int, changes map[string]any) *model.Envelope[Cluster] {
	return update[Cluster](ctx, k.c, clusterPath(id), changes, "Failed to update cluster")
}

// DeleteCluster removes a cluster record.
func (k *Kubernetes) DeleteCluster(ctx context.Context, id int) *model.Envelope[any] {
	return send[any](ctx, k.c, http.MethodDelete, clusterPath(id), nil, "Failed to delete cluster")
}

// ClusterOverview returns a cluster's summary.
func (k *Kubernetes) ClusterOverview(ctx context.Context, id int) Overview {
	return fetchData(ctx, k.c, clusterPath(id)+"/overview", Overview{}, "Failed to fetch cluster overview")
}

// ClustersPage returns one page of clusters.
func (k *Kubernetes) ClustersPage(ctx context.Context, req apiclient.PageRequest) model.Page[Cluster] {
	return apiclient.Paginated[Cluster](ctx, k.c, clustersList, req, "clusters")
}

// ClusterNodes returns the nodes of a cluster.
func (k *Kubernetes) ClusterNodes(ctx context.Context, id int) []Node {
	return fetchData(ctx, k.c, clusterPath(id)+"/nodes", []Node{}, "Failed to fetch cluster nodes")
}

// ClusterNamespaces returns the namespaces of a cluster.
func (k *Kubernetes) ClusterNamespaces(ctx context.Context, id int) []Namespace {
	return fetchData(ctx, k.c, clusterPath(id)+"/namespaces", []Namespace{}, "Failed to fetch cluster namespaces")
}

// ClusterWorkloads returns the workloads of a cluster.
func (k *Kubernetes) ClusterWorkloads(ctx context.Context, id int) []Workload {
	return fetchData(ctx, k.c, clusterPath(id)+"/workloads", []Workload{}, "Failed to fetch cluster workloads")
}

// ClusterPods returns the pods of a cluster.
func (k *Kubernetes) ClusterPods(ctx context.Context, id int) []Pod {
	return fetchData(ctx, k.c, clusterPath(id)+"/pods", []Pod{}, "Failed to fetch cluster pods")
}

// ClusterServices returns the services of a cluster.
func (k *Kubernetes) ClusterServices(ctx context.Context, id int) []Service {
	return fetchData(ctx, k.c, clusterPath(id)+"/services", []Service{}, "Failed to fetch cluster services")
}

// ClusterEvents returns the events of a cluster.
func (k *Kubernetes) ClusterEvents(ctx context.Context, id int) []Event {
	return fetchData(ctx, k.c, clusterPath(id)+"/events", []Event{}, "Failed to fetch cluster events")
}

// Node returns one node, or nil.
func (k *Kubernetes) Node(ctx context.Context, id string) *Node {
	return apiclient.GetEntityByID[Node](ctx, k.c, k8sPath("nodes"), id, "node")
}

// UpdateNode applies changes to a node.
func (k *Kubernetes) UpdateNode(ctx context.Context, id int, changes map[string]any) *model.Envelope[Node] {
	return update[Node](ctx, k.c, k8sPath("nodes")(id), changes, "Failed to update node")
}

// Namespace returns one namespace, or nil.
func (k *Kubernetes) Namespace(ctx context.Context, id string) *Namespace {
	return apiclient.GetEntityByID[Namespace](ctx, k.c, k8sPath("namespaces"), id, "namespace")
}

// Workload returns one workload, or nil.
func (k *Kubernetes) Workload(ctx context.Context, id string) *Workload {
	return apiclient.GetEntityByID[Workload](ctx, k.c, k8sPath("workloads"), id, "workload")
}

// Pod returns one pod, or nil.
func (k *Kubernetes) Pod(ctx context.Context, id string) *Pod {
	return apiclient.GetEntityByID[Pod](ctx, k.c, k8sPath("pods"), id, "pod")
}

// Service returns one service, or nil.
func (k *Kubernetes) Service(ctx context.Context, id string) *Service {
	return apiclient.GetEntityByID[Service](ctx, k.c, k8sPath("services"), id, "service")
}

// Services returns every service across clusters.
func (k *Kubernetes) Services(ctx context.Context) []Service {
	return fetchData(ctx, k.c, k8sServicesList, []Service{}, "Failed to fetch services")
}

// SubmitInventory posts an agent inventory report.
func (k *Kubernetes) SubmitInventory(ctx context.Context, inventory any) *model.Envelope[any] {
	return send[any](ctx, k.c, http.MethodPost, k8sInventory, inventory, "Failed to submit inventory")
}
