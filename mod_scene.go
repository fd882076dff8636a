package deskscene

import (
	"errors"
	"fmt"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/gekko3d/deskscene/scenert/rt/imageload"
	"github.com/gekko3d/deskscene/scenert/rt/layout"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/schollz/progressbar/v3"
)

// SceneModule loads a layout while the app is in StateLoading, draws it
// every running frame and releases it on shutdown.
type SceneModule struct {
	// Layout is used when LayoutPath is empty; nil means the built-in desk.
	Layout     *layout.Document
	LayoutPath string
	TextureDir string

	TextureSlots  int
	FallbackColor mgl32.Vec4
	HotReload     bool
	Progress      bool

	// Loader decodes texture files; nil means imageload.NewLoader().
	Loader core.ImageLoader
}

// SceneState is the resource holding the loaded scene.
type SceneState struct {
	Scene    *core.Scene
	Document *layout.Document

	cfg     SceneModule
	watcher *layout.Watcher
}

func (m SceneModule) Install(app *App, cmd *Commands) {
	if m.Loader == nil {
		m.Loader = imageload.NewLoader()
	}
	cmd.AddResources(&SceneState{cfg: m})

	app.UseSystem(
		System(sceneLoadSystem).
			InStage(Update).
			InState(OnEnter(StateLoading)),
	)
	app.UseSystem(
		System(sceneReloadSystem).
			InStage(PostUpdate).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(sceneRenderSystem).
			InStage(Render).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(sceneCloseSystem).
			InStage(Render).
			InState(OnEnter(StateShutdown)),
	)
}

func (st *SceneState) document() (*layout.Document, error) {
	if st.cfg.LayoutPath != "" {
		return layout.Load(st.cfg.LayoutPath)
	}
	if st.cfg.Layout != nil {
		return st.cfg.Layout, nil
	}
	return layout.Desk(), nil
}

// load prepares the scene on the backend. Only a missing layout or mesh
// upload failure is returned; texture and material problems are logged and
// the scene degrades around them.
func (st *SceneState) load(r *RendererState, cam *Camera, log Logger) error {
	doc, err := st.document()
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}
	spec, err := doc.SceneSpec(st.cfg.TextureDir)
	if err != nil {
		log.Errorf("layout: %v", err)
	}

	meshes, err := r.Backend.NewMeshes()
	if err != nil {
		return fmt.Errorf("upload meshes: %w", err)
	}

	var bar *progressbar.ProgressBar
	if st.cfg.Progress && len(spec.Textures) > 0 {
		bar = progressbar.Default(int64(len(spec.Textures)), "loading textures")
		defer bar.Close()
	}

	st.Scene = core.NewScene(core.SceneConfig{
		Shader:        r.Backend.Shader(),
		Textures:      r.Backend.Textures(),
		Loader:        st.cfg.Loader,
		Meshes:        meshes,
		Uniforms:      r.Uniforms,
		Logger:        log,
		TextureSlots:  st.cfg.TextureSlots,
		FallbackColor: st.cfg.FallbackColor,
		OnTexture: func(core.TextureSpec, error) {
			if bar != nil {
				bar.Add(1)
			}
		},
	})
	st.Document = doc

	if err := st.Scene.Prepare(spec); err != nil {
		log.Warnf("scene loaded with errors; affected objects draw with fallbacks")
	}

	if err := doc.ApplyCamera(&cam.CameraState); err != nil {
		log.Errorf("layout camera: %v", err)
	}

	if st.cfg.HotReload && st.cfg.LayoutPath != "" {
		w, err := layout.Watch(st.cfg.LayoutPath)
		if err != nil {
			log.Warnf("hot reload disabled: %v", err)
		} else {
			st.watcher = w
			log.Infof("watching %s for changes", st.cfg.LayoutPath)
		}
	}
	return nil
}

// reload swaps in the instances of doc. Textures, materials and lights stay.
func (st *SceneState) reload(doc *layout.Document, log Logger) {
	spec, err := doc.SceneSpec(st.cfg.TextureDir)
	if err != nil {
		log.Errorf("reload: %v", err)
	}
	st.Scene.Reload(spec)
	st.Document = doc
	log.Infof("reloaded layout: %d instances", len(spec.Instances))
}

func (st *SceneState) close() error {
	var errs []error
	if st.watcher != nil {
		errs = append(errs, st.watcher.Close())
		st.watcher = nil
	}
	if st.Scene != nil {
		errs = append(errs, st.Scene.Close())
	}
	return errors.Join(errs...)
}

func sceneLoadSystem(r *RendererState, st *SceneState, cam *Camera, cmd *Commands) {
	log := cmd.Logger()
	if err := st.load(r, cam, log); err != nil {
		log.Errorf("%v", err)
		cmd.ChangeState(StateShutdown)
		return
	}
	cmd.ChangeState(StateRunning)
}

func sceneReloadSystem(st *SceneState, input *Input, cmd *Commands) {
	log := cmd.Logger()
	if st.watcher != nil {
		select {
		case doc := <-st.watcher.Updates:
			st.reload(doc, log)
		case err := <-st.watcher.Errors:
			log.Errorf("reload: %v", err)
		default:
		}
	}
	if input.JustPressed[KeyR] && st.cfg.LayoutPath != "" {
		doc, err := layout.Load(st.cfg.LayoutPath)
		if err != nil {
			log.Errorf("reload: %v", err)
			return
		}
		st.reload(doc, log)
	}
}

func sceneRenderSystem(r *RendererState, st *SceneState, cam *Camera, cmd *Commands) {
	if !r.Drawing || st.Scene == nil {
		return
	}
	cam.Apply(r.Backend.Shader(), r.Uniforms, r.Aspect())
	// Unresolved tags were already reported once when first drawn.
	if err := st.Scene.Render(); err != nil {
		cmd.Logger().Debugf("render: %v", err)
	}
}

func sceneCloseSystem(st *SceneState, cmd *Commands) {
	if err := st.close(); err != nil {
		cmd.Logger().Errorf("release scene: %v", err)
	}
}
