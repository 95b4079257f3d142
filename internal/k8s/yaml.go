package k8s

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

// PodYAML serializes a raw pod record for the detail view. managedFields
// are dropped; the input is left untouched.
func PodYAML(pod *unstructured.Unstructured) (string, error) {
	obj := pod.DeepCopy()
	unstructured.RemoveNestedField(obj.Object, "metadata", "managedFields")
	data, err := yaml.Marshal(obj.Object)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
