//go:build android && cgo

package platformloop

/*
#include <jni.h>
#include <stdlib.h>

extern void platformloopPollAll(void);

static void platformloop_poll_all(JNIEnv *env, jclass clazz) {
	platformloopPollAll();
}

static jint platformloop_get_env(JavaVM *vm, JNIEnv **env, int *attached) {
	*attached = 0;
	jint rc = (*vm)->GetEnv(vm, (void **)env, JNI_VERSION_1_6);
	if (rc == JNI_EDETACHED) {
		rc = (*vm)->AttachCurrentThread(vm, env, NULL);
		if (rc == JNI_OK) {
			*attached = 1;
		}
	}
	return rc;
}

static void platformloop_detach(JavaVM *vm) {
	(*vm)->DetachCurrentThread(vm);
}

static int platformloop_clear_exception(JNIEnv *env) {
	if ((*env)->ExceptionCheck(env)) {
		(*env)->ExceptionDescribe(env);
		(*env)->ExceptionClear(env);
		return 1;
	}
	return 0;
}

static int platformloop_register(JNIEnv *env, const char *cls, const char *name) {
	jclass c = (*env)->FindClass(env, cls);
	if (c == NULL) {
		platformloop_clear_exception(env);
		return -1;
	}
	JNINativeMethod m = {(char *)name, "()V", (void *)platformloop_poll_all};
	jint rc = (*env)->RegisterNatives(env, c, &m, 1);
	(*env)->DeleteLocalRef(env, c);
	if (rc != JNI_OK) {
		platformloop_clear_exception(env);
		return -2;
	}
	return 0;
}

static int platformloop_call_static(JNIEnv *env, const char *cls, const char *name) {
	jclass c = (*env)->FindClass(env, cls);
	if (c == NULL) {
		platformloop_clear_exception(env);
		return -1;
	}
	jmethodID m = (*env)->GetStaticMethodID(env, c, name, "()V");
	if (m == NULL) {
		platformloop_clear_exception(env);
		(*env)->DeleteLocalRef(env, c);
		return -2;
	}
	(*env)->CallStaticVoidMethod(env, c, m);
	(*env)->DeleteLocalRef(env, c);
	if (platformloop_clear_exception(env)) {
		return -3;
	}
	return 0;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"unsafe"
)

// javaVM is the host recorded by Run, kept for the life of the process: the
// JavaVM outlives any one loop.
var javaVM atomic.Pointer[jniHost]

// jniHost is the Java MainLoop class, reached through the JavaVM.
//
// FindClass resolves through the class loader of the calling frame, so the
// first Register must happen on a thread that came from Java (typically
// within JNI_OnLoad), not on a thread the Go runtime attached itself.
type jniHost struct {
	vm    *C.JavaVM
	class string
}

func newJNIHost(vm unsafe.Pointer, class string) (*jniHost, error) {
	if vm == nil {
		return nil, platformError("attach java vm", errors.New("nil JavaVM"))
	}
	return &jniHost{vm: (*C.JavaVM)(vm), class: class}, nil
}

// withEnv runs fn with a JNIEnv for the current thread, attaching it to the
// VM for the duration if it is not attached already.
func (h *jniHost) withEnv(fn func(env *C.JNIEnv) error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var (
		env      *C.JNIEnv
		attached C.int
	)
	if rc := C.platformloop_get_env(h.vm, &env, &attached); rc != C.JNI_OK {
		return fmt.Errorf("attach current thread: jni error %d", int(rc))
	}
	if attached != 0 {
		defer C.platformloop_detach(h.vm)
	}
	return fn(env)
}

// exec runs fn with the JNIEnv of the current thread. Failures to attach are
// returned as *PlatformError, errors of fn as they are.
func (h *jniHost) exec(fn func(env unsafe.Pointer) error) error {
	var entered bool
	err := h.withEnv(func(env *C.JNIEnv) error {
		entered = true
		return fn(unsafe.Pointer(env))
	})
	if err != nil && !entered {
		return platformError("attach java vm", err)
	}
	return err
}

// Register implements Host.
func (h *jniHost) Register(method string) error {
	return h.withEnv(func(env *C.JNIEnv) error {
		cls := C.CString(h.class)
		defer C.free(unsafe.Pointer(cls))
		name := C.CString(method)
		defer C.free(unsafe.Pointer(name))

		switch C.platformloop_register(env, cls, name) {
		case 0:
			return nil
		case -1:
			return fmt.Errorf("class %s not found", h.class)
		default:
			return fmt.Errorf("RegisterNatives %s.%s()V failed", h.class, method)
		}
	})
}

// Start implements Host.
func (h *jniHost) Start() error {
	return h.call("start")
}

// Stop implements Host.
func (h *jniHost) Stop() error {
	return h.call("stop")
}

func (h *jniHost) call(method string) error {
	return h.withEnv(func(env *C.JNIEnv) error {
		cls := C.CString(h.class)
		defer C.free(unsafe.Pointer(cls))
		name := C.CString(method)
		defer C.free(unsafe.Pointer(name))

		switch C.platformloop_call_static(env, cls, name) {
		case 0:
			return nil
		case -1:
			return fmt.Errorf("class %s not found", h.class)
		case -2:
			return fmt.Errorf("static method %s.%s()V not found", h.class, method)
		default:
			return fmt.Errorf("%s.%s() threw", h.class, method)
		}
	})
}

//export platformloopPollAll
func platformloopPollAll() {
	PollAll()
}
