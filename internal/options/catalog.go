// Package options is the catalog of TVM build switches and their projection
// into CMake defines.
package options

import (
	"fmt"
	"strings"
)

// Kind is the semantic kind of an option.
type Kind int

const (
	Bool     Kind = iota // ON or OFF
	TriState             // ON, OFF or a path
	Text                 // free text, passed verbatim
	Path                 // a filesystem path
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case TriState:
		return "on|off|path"
	case Text:
		return "text"
	case Path:
		return "path"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ID identifies one option of the catalog.
type ID int

const (
	UseCUDA ID = iota
	UseNCCL
	UseROCm
	UseOpenCL
	UseOpenCLGTest
	UseVulkan
	UseMetal
	UseHexagon
	UseHexagonSDK
	UseHexagonArch
	UseRPC
	UseCppRPC
	UseThreads
	UseLLVM
	UseStackVMRuntime
	UseGraphExecutor
	UseGraphExecutorCUDAGraph
	UsePipelineExecutor
	UseProfiler
	UseAOTExecutor
	UseOpenMP
	UseRelayDebug
	UseRTTI
	UseMSVCMT
	UseMicro
	InstallDev
	HidePrivateSymbols
	UseFallbackSTLMap
	UseBLAS
	UseMKL
	UseDNNL
	UseCuDNN
	UseCuBLAS
	UseCutlass
	UseThrust
	UseMIOpen
	UseRocBLAS
	UseSort
	UseNNPack
	UseRandom
	UseTFLite
	UseTensorflowPath
	UseFlatbuffersPath
	UseEdgeTPU
	UseCoreML
	UseBNNS
	UseTargetONNX
	UseArmComputeLib
	UseArmComputeLibGraphExecutor
	UseEthosN
	UseTensorRTCodegen
	UseTensorRTRuntime
	UseVitisAI
	UseCLML
	UseANTLR
	UsePAPI
	UseGTest
	UseLibBacktrace
	UseCcache
	UseLibTorch
	BuildStaticRuntime

	numOptions
)

// Option describes one catalog entry.
type Option struct {
	ID   ID
	Key  string // CMake cache variable
	Kind Kind
	Help string
}

// catalog is indexed by ID; its order is the emission order of Defines.
var catalog = [numOptions]Option{
	{UseCUDA, "USE_CUDA", TriState, "CUDA support, or the CUDA toolkit path"},
	{UseNCCL, "USE_NCCL", TriState, "NCCL support, or the NCCL install path"},
	{UseROCm, "USE_ROCM", TriState, "ROCm support, or the ROCm path"},
	{UseOpenCL, "USE_OPENCL", TriState, "OpenCL support, or the OpenCL SDK path"},
	{UseOpenCLGTest, "USE_OPENCL_GTEST", TriState, "OpenCL gtest suite, or the gtest path"},
	{UseVulkan, "USE_VULKAN", TriState, "Vulkan support, or the Vulkan SDK path"},
	{UseMetal, "USE_METAL", Bool, "Metal support"},
	{UseHexagon, "USE_HEXAGON", Bool, "Hexagon support"},
	{UseHexagonSDK, "USE_HEXAGON_SDK", Path, "path to the Hexagon SDK root"},
	{UseHexagonArch, "USE_HEXAGON_ARCH", Text, "Hexagon architecture, e.g. v66"},
	{UseRPC, "USE_RPC", Bool, "the RPC runtime"},
	{UseCppRPC, "USE_CPP_RPC", Bool, "the C++ RPC server"},
	{UseThreads, "USE_THREADS", Bool, "the thread pool"},
	{UseLLVM, "USE_LLVM", TriState, "LLVM support, or the path to llvm-config"},
	{UseStackVMRuntime, "USE_STACKVM_RUNTIME", Bool, "the StackVM runtime"},
	{UseGraphExecutor, "USE_GRAPH_EXECUTOR", Bool, "the graph executor"},
	{UseGraphExecutorCUDAGraph, "USE_GRAPH_EXECUTOR_CUDA_GRAPH", Bool, "CUDA graph support in the graph executor"},
	{UsePipelineExecutor, "USE_PIPELINE_EXECUTOR", Bool, "the pipeline executor"},
	{UseProfiler, "USE_PROFILER", Bool, "the debug executor and profiler"},
	{UseAOTExecutor, "USE_AOT_EXECUTOR", Bool, "the AOT executor"},
	{UseOpenMP, "USE_OPENMP", Text, "OpenMP flavor: none, gnu or intel"},
	{UseRelayDebug, "USE_RELAY_DEBUG", Bool, "Relay debug mode"},
	{UseRTTI, "USE_RTTI", Bool, "RTTI"},
	{UseMSVCMT, "USE_MSVC_MT", Bool, "the /MT runtime on MSVC"},
	{UseMicro, "USE_MICRO", Bool, "microTVM support"},
	{InstallDev, "INSTALL_DEV", Bool, "installation of development headers"},
	{HidePrivateSymbols, "HIDE_PRIVATE_SYMBOLS", Bool, "hiding of private symbols"},
	{UseFallbackSTLMap, "USE_FALLBACK_STL_MAP", Bool, "std::unordered_map in place of TVM's map"},
	{UseBLAS, "USE_BLAS", Text, "BLAS library: none, openblas, mkl, atlas or apple"},
	{UseMKL, "USE_MKL", TriState, "MKL, or the MKL root path"},
	{UseDNNL, "USE_DNNL", Text, "DNNL integration: ON, OFF, JSON or C_SRC"},
	{UseCuDNN, "USE_CUDNN", Bool, "cuDNN"},
	{UseCuBLAS, "USE_CUBLAS", Bool, "cuBLAS"},
	{UseCutlass, "USE_CUTLASS", Bool, "CUTLASS kernels"},
	{UseThrust, "USE_THRUST", Bool, "Thrust"},
	{UseMIOpen, "USE_MIOPEN", Bool, "MIOpen"},
	{UseRocBLAS, "USE_ROCBLAS", Bool, "rocBLAS"},
	{UseSort, "USE_SORT", Bool, "contrib sort"},
	{UseNNPack, "USE_NNPACK", Bool, "NNPACK"},
	{UseRandom, "USE_RANDOM", Bool, "contrib random"},
	{UseTFLite, "USE_TFLITE", TriState, "TFLite runtime, or the TFLite path"},
	{UseTensorflowPath, "USE_TENSORFLOW_PATH", Path, "path to the TensorFlow source tree"},
	{UseFlatbuffersPath, "USE_FLATBUFFERS_PATH", Path, "path to flatbuffers"},
	{UseEdgeTPU, "USE_EDGETPU", Path, "path to the Edge TPU runtime"},
	{UseCoreML, "USE_COREML", Bool, "Core ML"},
	{UseBNNS, "USE_BNNS", Bool, "Apple BNNS"},
	{UseTargetONNX, "USE_TARGET_ONNX", Bool, "the ONNX codegen target"},
	{UseArmComputeLib, "USE_ARM_COMPUTE_LIB", Bool, "Arm Compute Library codegen"},
	{UseArmComputeLibGraphExecutor, "USE_ARM_COMPUTE_LIB_GRAPH_EXECUTOR", TriState, "Arm Compute Library runtime, or its path"},
	{UseEthosN, "USE_ETHOSN", TriState, "Arm Ethos-N, or the driver stack path"},
	{UseTensorRTCodegen, "USE_TENSORRT_CODEGEN", Bool, "TensorRT codegen"},
	{UseTensorRTRuntime, "USE_TENSORRT_RUNTIME", TriState, "TensorRT runtime, or the TensorRT path"},
	{UseVitisAI, "USE_VITIS_AI", Bool, "Vitis-AI"},
	{UseCLML, "USE_CLML", TriState, "OpenCLML, or the CLML SDK path"},
	{UseANTLR, "USE_ANTLR", TriState, "the ANTLR parser, or the ANTLR jar path"},
	{UsePAPI, "USE_PAPI", TriState, "PAPI counters, or the PAPI pkgconfig path"},
	{UseGTest, "USE_GTEST", Text, "C++ unit tests: AUTO, ON or OFF"},
	{UseLibBacktrace, "USE_LIBBACKTRACE", Text, "libbacktrace: AUTO, ON, OFF or COMPILE"},
	{UseCcache, "USE_CCACHE", Text, "ccache: AUTO, ON or OFF"},
	{UseLibTorch, "USE_LIBTORCH", Path, "path to libtorch"},
	{BuildStaticRuntime, "BUILD_STATIC_RUNTIME", Bool, "a static runtime library"},
}

var byKey = func() map[string]ID {
	m := make(map[string]ID, len(catalog))
	for _, opt := range catalog {
		m[opt.Key] = opt.ID
	}
	return m
}()

// All returns the catalog in declaration order.
func All() []Option {
	return append([]Option(nil), catalog[:]...)
}

// Lookup finds an option by its CMake key. The match is case-insensitive
// and accepts dashes for underscores, so "use-cuda" finds USE_CUDA.
func Lookup(key string) (Option, bool) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(key), "-", "_"))
	id, ok := byKey[norm]
	if !ok {
		return Option{}, false
	}
	return catalog[id], true
}

// Info returns the catalog entry for id.
func (id ID) Info() Option {
	return catalog[id]
}

func (id ID) String() string {
	if id < 0 || id >= numOptions {
		return fmt.Sprintf("ID(%d)", int(id))
	}
	return catalog[id].Key
}

// FlagName returns the command-line spelling of the option, e.g. "use-cuda".
func (o Option) FlagName() string {
	return strings.ToLower(strings.ReplaceAll(o.Key, "_", "-"))
}
