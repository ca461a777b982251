package ui

const themeStorageKey = "sre-ui-theme"

const themeInitScript = `(function(){
  var root=document.documentElement;
  var mode='auto';
  try { mode=localStorage.getItem('` + themeStorageKey + `')||'auto'; } catch (_) {}
  if(mode!=='light'&&mode!=='dark'){ mode='auto'; }
  root.setAttribute('data-color-mode',mode);
})();`

const themeBehaviorScript = `(function(){
  var root=document.documentElement;
  var media=window.matchMedia('(prefers-color-scheme: dark)');
  function resolved(){
    var mode=root.getAttribute('data-color-mode')||'auto';
    return mode==='auto'?(media.matches?'dark':'light'):mode;
  }
  var toggle=document.getElementById('theme-toggle');
  if(!toggle){ return; }
  toggle.addEventListener('click', function(){
    var next=resolved()==='dark'?'light':'dark';
    root.setAttribute('data-color-mode',next);
    try { localStorage.setItem('` + themeStorageKey + `', next); } catch (_) {}
  });
})();`
