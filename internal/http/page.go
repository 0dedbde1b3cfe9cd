package http

// pageTpl is the whole UI: markup, styling, and the thin JS adapters that
// forward every interaction to the state endpoints. The page itself holds
// no result state beyond what the last response told it to draw.
const pageTpl = `<!doctype html>
<html lang="en">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:1400px;margin:0 auto;padding:1rem;background:#fafafa}
header{display:flex;gap:8px;flex-wrap:wrap;align-items:center;margin-bottom:1rem}
header input,header select{padding:6px;border:1px solid #ccc;border-radius:6px}
header button{padding:6px 14px;border:1px solid #888;border-radius:6px;cursor:pointer;background:#fff}
header button:hover{background:#f0f0f0}
#query-input{width:320px}
.gallery{display:grid;grid-template-columns:repeat(auto-fill,minmax(180px,1fr));gap:8px}
.gallery img{width:100%;height:120px;object-fit:cover;border-radius:4px;cursor:pointer}
.placeholder{grid-column:1/-1;color:#666;padding:2rem;text-align:center}
.video-group{grid-column:1/-1;border:1px solid #ddd;border-radius:8px;padding:10px;background:#fff;position:relative}
.video-title{margin:0 0 8px 0;font-size:1rem}
.main-frame{max-width:480px;max-height:270px;display:block;margin:0 auto;cursor:pointer}
.nav-btn{position:absolute;top:45%;padding:4px 10px;cursor:pointer}
.left-btn{left:8px}
.right-btn{right:8px}
.neighbor-frames{display:flex;gap:4px;justify-content:center;margin-top:6px}
.neighbor-frames img{width:90px;height:60px;object-fit:cover;cursor:pointer;opacity:.7}
.neighbor-frames img.active{outline:2px solid #06c;opacity:1}
.modal{display:none;position:fixed;inset:0;background:rgba(0,0,0,.75);z-index:10;align-items:center;justify-content:center}
.modal-panel{background:#fff;border-radius:8px;padding:12px;max-width:90vw;max-height:92vh;overflow:auto;position:relative}
.modal-close{position:absolute;top:6px;right:12px;font-size:1.4rem;cursor:pointer}
#modal-img{max-width:80vw;max-height:60vh;display:block;margin:0 auto}
#modal-thumbs{display:flex;gap:4px;overflow-x:auto;margin-top:8px}
#modal-thumbs img{width:80px;height:54px;object-fit:cover;cursor:pointer}
.modal-info{display:flex;gap:16px;justify-content:center;margin:8px 0}
#embed-frame-box{margin-top:8px;text-align:center}
.muted{color:#666}
</style>

<header>
  <input id="query-input" placeholder="Search query" />
  <input id="color-input" placeholder="Colors (optional)" />
  <input id="ocr-input" placeholder="OCR text (optional)" />
  <input id="topk-input" type="number" value="100" min="1" style="width:80px" />
  <select id="model-select">
    <option value="">{{.DefaultMode}}</option>
    <option value="OPENCLIP_COLLECTION">OPENCLIP_COLLECTION</option>
    <option value="APPLE_COLLECTION">APPLE_COLLECTION</option>
  </select>
  <button id="search-button">Search</button>
  <button id="view-mode-toggle">View by Video</button>
  <span id="query-error" class="muted"></span>
</header>

{{if .HasDualGallery}}
<div id="gallery-frame" class="gallery"></div>
<div id="gallery-video" class="gallery" style="display:none"></div>
{{else}}
<div id="gallery" class="gallery"></div>
{{end}}

{{if .HasSubmissionForm}}
<section id="submission" style="margin-top:1rem;border-top:1px solid #ddd;padding-top:8px">
  <h3>Submit answer</h3>
  <select id="submit-type">
    <option value="video_kis">video_kis</option>
    <option value="qa">qa</option>
    <option value="trake">trake</option>
  </select>
  <input id="submit-video" placeholder="Video id" />
  <input id="submit-frame" type="number" placeholder="Frame" style="width:100px" />
  <input id="submit-text" placeholder="Answer text" style="width:280px" />
  <input id="frame-accumulator" placeholder="Collected frames" style="width:220px" />
  <button id="submit-button">Submit</button>
  <span id="submit-status" class="muted"></span>
</section>
{{end}}

<div id="image-modal" class="modal">
  <div class="modal-panel">
    <span class="modal-close" id="modal-close">&times;</span>
    <img id="modal-img" alt="" />
    <div class="modal-info">
      <span>Video: <b id="info-videoid">-</b></span>
      <span>Frame: <b id="info-frame">-</b></span>
      <button id="prev-btn">&lt;</button>
      <button id="next-btn">&gt;</button>
      {{if .HasExternalSync}}<button id="open-player-btn">Open player</button>{{end}}
    </div>
    <div id="modal-thumbs"></div>
  </div>
</div>

{{if .HasExternalSync}}
<div id="embed-modal" class="modal">
  <div class="modal-panel">
    <span class="modal-close" id="embed-close">&times;</span>
    <div id="player-host"><div id="player"></div></div>
    <div id="embed-frame-box">
      <span>Frame: <b id="live-frame">-</b></span>
      <span>Time: <b id="live-clock">-</b></span>
      <button id="copy-frame-btn">Copy frame</button>
    </div>
  </div>
</div>
<script src="https://www.youtube.com/iframe_api"></script>
{{end}}

<script>
(function(){
  "use strict";
  var hasDual = {{.HasDualGallery}};
  var hasSync = {{.HasExternalSync}};
  var hasSubmit = {{.HasSubmissionForm}};
  var pollMs = {{.PollInterval}};

  var galleryFrame = document.getElementById(hasDual ? 'gallery-frame' : 'gallery');
  var galleryVideo = hasDual ? document.getElementById('gallery-video') : galleryFrame;
  var toggleBtn = document.getElementById('view-mode-toggle');
  var currentMode = 'frame';

  function post(url, body){
    return fetch(url, {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify(body || {})
    }).then(function(r){
      return r.json().then(function(j){ return {ok: r.ok, body: j}; });
    });
  }

  function activeGallery(){
    if (!hasDual) return galleryFrame;
    return currentMode === 'frame' ? galleryFrame : galleryVideo;
  }

  function showGalleryFor(mode){
    currentMode = mode;
    toggleBtn.textContent = mode === 'frame' ? 'View by Video' : 'View by Frame';
    if (hasDual){
      galleryFrame.style.display = mode === 'frame' ? 'grid' : 'none';
      galleryVideo.style.display = mode === 'frame' ? 'none' : 'grid';
    }
  }

  function placeholder(text){
    activeGallery().innerHTML = '<p class="placeholder"></p>';
    activeGallery().querySelector('.placeholder').textContent = text;
  }

  // --- rendering from view-model JSON ---
  function render(view){
    if (!view.loaded) return;
    showGalleryFor(view.mode);
    var g = activeGallery();
    g.innerHTML = '';
    if (view.empty){ placeholder('No results found.'); return; }
    if (view.mode === 'frame') renderFrames(g, view.frames || []);
    else renderGroups(g, view.groups || []);
  }

  function renderFrames(g, frames){
    frames.forEach(function(item){
      var img = document.createElement('img');
      img.src = item.url;
      img.alt = item.path;
      img.loading = 'lazy';
      img.dataset.path = item.path;
      if (item.group_id) img.dataset.videoId = item.group_id;
      img.addEventListener('click', function(){ openViewer(item.path, item.group_id || ''); });
      g.appendChild(img);
    });
  }

  function renderGroups(g, groups){
    groups.forEach(function(group){
      g.appendChild(buildGroupBlock(group));
    });
  }

  function buildGroupBlock(group){
    var block = document.createElement('div');
    block.className = 'video-group';
    block.dataset.videoId = group.group_id;

    var title = document.createElement('h3');
    title.className = 'video-title';
    title.textContent = group.title;
    block.appendChild(title);

    var main = document.createElement('img');
    main.className = 'main-frame';
    main.src = group.rep_url || '';
    main.dataset.path = group.rep_path || '';
    main.addEventListener('click', function(e){
      e.stopPropagation();
      openViewer(main.dataset.path, group.group_id);
    });
    block.appendChild(main);

    var prev = document.createElement('button');
    prev.textContent = '<'; prev.className = 'nav-btn left-btn';
    var next = document.createElement('button');
    next.textContent = '>'; next.className = 'nav-btn right-btn';
    prev.addEventListener('click', function(e){ e.stopPropagation(); stepGroup(group.group_id, -1, block); });
    next.addEventListener('click', function(e){ e.stopPropagation(); stepGroup(group.group_id, +1, block); });
    block.appendChild(prev);
    block.appendChild(next);

    var thumbs = document.createElement('div');
    thumbs.className = 'neighbor-frames';
    (group.neighbors || []).forEach(function(n){
      var t = document.createElement('img');
      t.src = n.url;
      if (n.active) t.classList.add('active');
      t.addEventListener('click', function(e){
        e.stopPropagation();
        showGroupAt(group.group_id, n.index, block);
      });
      thumbs.appendChild(t);
    });
    block.appendChild(thumbs);
    return block;
  }

  function showGroupAt(videoId, index, block){
    post('/api/group/step', {video_id: videoId, index: index}).then(function(res){
      if (!res.ok) return;
      block.replaceWith(buildGroupBlock(res.body));
    });
  }

  function stepGroup(videoId, dir, block){
    post('/api/group/step', {video_id: videoId, dir: dir}).then(function(res){
      if (!res.ok) return;
      block.replaceWith(buildGroupBlock(res.body));
    });
  }

  // --- search ---
  function doSearch(){
    var query = document.getElementById('query-input').value.trim();
    document.getElementById('query-error').textContent = '';
    var params = new URLSearchParams();
    params.set('query', query);
    params.set('k', document.getElementById('topk-input').value);
    var mode = document.getElementById('model-select').value;
    if (mode) params.set('mode', mode);
    var colors = document.getElementById('color-input').value.trim();
    var ocr = document.getElementById('ocr-input').value.trim();
    if (colors) params.set('colors', colors);
    if (ocr) params.set('ocr', ocr);

    placeholder('Loading...');
    fetch('/api/search?' + params.toString())
      .then(function(r){ return r.json().then(function(j){ return {ok: r.ok, body: j}; }); })
      .then(function(res){
        if (!res.ok){
          if (res.body.kind === 'query'){
            document.getElementById('query-error').textContent = res.body.error;
            placeholder('No results found.');
          } else {
            placeholder('Failed to fetch results.');
          }
          return;
        }
        if (res.body.stale) return; // a newer search already rendered
        render(res.body);
      })
      .catch(function(){ placeholder('Failed to fetch results.'); });
  }

  document.getElementById('search-button').addEventListener('click', doSearch);
  document.getElementById('query-input').addEventListener('keypress', function(e){
    if (e.key === 'Enter') doSearch();
  });
  toggleBtn.addEventListener('click', function(){
    post('/api/view/toggle').then(function(res){
      if (res.ok) render(res.body);
    });
  });

  // --- viewer (lightbox) ---
  var modal = document.getElementById('image-modal');
  var modalPanel = modal.querySelector('.modal-panel');

  function openViewer(path, videoId){
    post('/api/viewer/open', {path: path, video_id: videoId}).then(function(res){
      if (res.ok) applyViewer(res.body);
    });
  }

  function applyViewer(frame){
    if (!frame.visible){ modal.style.display = 'none'; return; }
    modal.style.display = 'flex';
    document.getElementById('modal-img').src = frame.url;
    document.getElementById('info-videoid').textContent = frame.video_id;
    document.getElementById('info-frame').textContent = frame.frame_id;
    var strip = document.getElementById('modal-thumbs');
    strip.innerHTML = '';
    (frame.thumbs || []).forEach(function(t){
      var img = document.createElement('img');
      img.src = t.url;
      img.addEventListener('click', function(e){
        e.stopPropagation();
        post('/api/viewer/show', {index: t.index}).then(function(res){
          if (res.ok) applyViewer(res.body);
        });
      });
      strip.appendChild(img);
    });
  }

  function viewerStep(op){
    post('/api/viewer/' + op).then(function(res){
      if (res.ok) applyViewer(res.body);
    });
  }

  document.getElementById('prev-btn').addEventListener('click', function(e){ e.stopPropagation(); viewerStep('prev'); });
  document.getElementById('next-btn').addEventListener('click', function(e){ e.stopPropagation(); viewerStep('next'); });
  document.getElementById('modal-close').addEventListener('click', function(e){ e.stopPropagation(); viewerStep('close'); });
  modal.addEventListener('click', function(){ viewerStep('close'); });
  modalPanel.addEventListener('click', function(e){ e.stopPropagation(); });

  document.addEventListener('keydown', function(e){
    if (modal.style.display !== 'flex') return;
    if (e.key === 'ArrowLeft') viewerStep('prev');
    else if (e.key === 'ArrowRight') viewerStep('next');
    else if (e.key === 'Escape') viewerStep('close');
  });

  // --- external player ---
  if (hasSync){
    var embedModal = document.getElementById('embed-modal');
    var player = null;
    var pollTimer = null;

    function stopPolling(){
      if (pollTimer){ clearInterval(pollTimer); pollTimer = null; }
    }

    function startPolling(){
      stopPolling(); // never more than one interval
      pollTimer = setInterval(function(){
        if (!player || typeof player.getCurrentTime !== 'function') return;
        post('/api/embed/position', {seconds: player.getCurrentTime()}).then(function(res){
          if (!res.ok) return;
          document.getElementById('live-frame').textContent = res.body.frame;
          document.getElementById('live-clock').textContent = res.body.clock;
        });
      }, pollMs);
    }

    function openEmbed(videoId, frameIndex){
      fetch('/api/embed/open?video=' + encodeURIComponent(videoId) + '&frame=' + frameIndex)
        .then(function(r){ return r.json().then(function(j){ return {ok: r.ok, body: j}; }); })
        .then(function(res){
          if (!res.ok){ alert(res.body.error); return; }
          embedModal.style.display = 'flex';
          var host = document.getElementById('player-host');
          host.innerHTML = '<div id="player"></div>';
          if (window.YT && window.YT.Player){
            player = new YT.Player('player', {
              videoId: res.body.video_id,
              playerVars: {start: res.body.start, autoplay: 1, controls: 1},
              events: {
                onStateChange: function(e){
                  if (e.data === YT.PlayerState.PLAYING) startPolling();
                  else stopPolling();
                }
              }
            });
          } else {
            // API not initialized: static embed, no live position tracking
            host.innerHTML = '<iframe width="640" height="360" frameborder="0" allow="autoplay" ' +
              'src="https://www.youtube.com/embed/' + encodeURIComponent(res.body.video_id) +
              '?start=' + res.body.start + '&autoplay=1"></iframe>';
            player = null;
          }
        });
    }

    function closeEmbed(){
      stopPolling();
      if (player && typeof player.destroy === 'function') player.destroy();
      player = null;
      document.getElementById('player-host').innerHTML = '<div id="player"></div>';
      document.getElementById('live-frame').textContent = '-';
      document.getElementById('live-clock').textContent = '-';
      embedModal.style.display = 'none';
      post('/api/embed/close');
    }

    document.getElementById('open-player-btn').addEventListener('click', function(e){
      e.stopPropagation();
      var videoId = document.getElementById('info-videoid').textContent.trim();
      var frame = parseInt(document.getElementById('info-frame').textContent.trim(), 10) || 0;
      openEmbed(videoId, frame);
    });
    document.getElementById('embed-close').addEventListener('click', function(e){ e.stopPropagation(); closeEmbed(); });
    embedModal.addEventListener('click', closeEmbed);
    embedModal.querySelector('.modal-panel').addEventListener('click', function(e){ e.stopPropagation(); });

    document.getElementById('copy-frame-btn').addEventListener('click', function(){
      var frame = document.getElementById('live-frame').textContent.trim();
      if (frame === '-' || frame === ''){ alert('No frame available yet.'); return; }
      var write = navigator.clipboard
        ? navigator.clipboard.writeText(frame)
        : Promise.reject(new Error('clipboard unavailable'));
      write.then(function(){
        return post('/api/clip').then(function(res){
          if (res.ok && hasSubmit){
            document.getElementById('frame-accumulator').value = res.body.accumulator;
          }
        });
      }).catch(function(){
        alert('Clipboard access failed.');
      });
    });
  }

  // --- submission ---
  if (hasSubmit){
    document.getElementById('submit-button').addEventListener('click', function(){
      var status = document.getElementById('submit-status');
      status.textContent = 'Submitting...';
      var frames = document.getElementById('frame-accumulator').value
        .split(',').map(function(s){ return parseInt(s, 10); })
        .filter(function(n){ return !isNaN(n); });
      post('/api/submit', {
        type: document.getElementById('submit-type').value,
        video_id: document.getElementById('submit-video').value.trim(),
        frame: parseInt(document.getElementById('submit-frame').value, 10) || 0,
        text: document.getElementById('submit-text').value,
        query: document.getElementById('query-input').value.trim(),
        frames: frames
      }).then(function(res){
        status.textContent = res.ok ? 'Submitted.' : ('Failed: ' + res.body.error);
      });
    });
  }
})();
</script>
`
